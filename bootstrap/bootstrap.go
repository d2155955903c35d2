package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"pcluster/pcui/cognito"
	"pcluster/pcui/config"
	"pcluster/pcui/costexplorer"
	"pcluster/pcui/features"
	"pcluster/pcui/filesystem"
	"pcluster/pcui/metrics"
	"pcluster/pcui/pcapi"
	"pcluster/pcui/pcluster"
	"pcluster/pcui/ssm"
	"pcluster/pcui/web"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go/service/cognitoidentityprovider"
	awscostexplorer "github.com/aws/aws-sdk-go/service/costexplorer"
	awsssm "github.com/aws/aws-sdk-go/service/ssm"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog"
)

// Cost explorer is served from a single region.
const costExplorerRegion = "us-east-1"

func exit(logger zerolog.Logger, err error, msg string) {
	logger.Error().Err(err).Msg(msg)
	os.Exit(1)
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

func Web(configFilename string) {
	cfg, err := config.Parse(configFilename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %s\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)
	web.AppVersion = AppVersion

	awsSession, err := session.NewSession(aws.NewConfig().WithRegion(cfg.Region))
	if err != nil {
		exit(logger, err, "cannot create aws session")
	}

	urls, err := cfg.URLs()
	if err != nil {
		exit(logger, err, "invalid api base url")
	}
	client := pcapi.New(urls, cfg.Region, awsSession.Config.Credentials, logger.With().Str("component", "pcapi").Logger())

	broker := filesystem.NewScriptedEventBroker(logger.With().Str("component", "event-broker").Logger())
	for _, sub := range cfg.Subscribes {
		broker.Subscribe(sub.Event, sub.Script, sub.Mandatory)
	}

	provider := features.NewDefault()
	for _, feature := range cfg.Features {
		if err := provider.Extend(feature.Version, features.Feature(feature.Name)); err != nil {
			exit(logger, err, "invalid feature configuration")
		}
	}

	templates, err := filesystem.NewTemplateStorage(cfg.TemplateFile)
	if err != nil {
		exit(logger, err, "cannot open template storage")
	}

	clusterRepo := pcapi.NewClusterRepository(client)
	runner := ssm.NewRunner(
		awsssm.New(awsSession),
		cloudwatchlogs.New(awsSession),
		cfg.SSM.LogGroup,
		logger.With().Str("component", "ssm").Logger(),
	)
	services := web.Services{
		Clusters:  pcluster.NewClusterService(clusterRepo, broker),
		Images:    pcluster.NewImageService(pcapi.NewImageRepository(client)),
		Logs:      pcluster.NewLogService(pcapi.NewLogRepository(client), clusterRepo),
		Dcv:       pcluster.NewDcvService(runner),
		Templates: pcluster.NewTemplateService(templates),
		Versions:  client,
		Proxy:     client,
		Features:  provider,
	}
	if cfg.OIDC.UserPoolId != "" {
		users := cognito.NewUserRepository(cognitoidentityprovider.New(awsSession), cfg.OIDC.UserPoolId)
		services.Users = pcluster.NewUserService(users, broker)
	}
	if cfg.CostEnabled() {
		costs, err := costexplorer.New(awscostexplorer.New(awsSession, aws.NewConfig().WithRegion(costExplorerRegion)), cfg.Cost.AllocationTags)
		if err != nil {
			exit(logger, err, "cannot create cost explorer client")
		}
		services.Costs = pcluster.NewCostService(costs)
	}

	var oidcp *oidc.Provider
	if cfg.OIDC.Issuer != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		oidcp, err = oidc.NewProvider(ctx, cfg.OIDC.Issuer)
		cancel()
		if err != nil {
			exit(logger, err, "cannot discover oidc provider")
		}
	}

	if err := metrics.Init(); err != nil {
		exit(logger, err, "cannot register metrics")
	}

	server := http.Server{
		Addr:              cfg.Web.Listen,
		Handler:           web.New(cfg, logger, services, oidcp),
		ReadHeaderTimeout: 30 * time.Second,
	}
	logger.Info().Str("addr", server.Addr).Str("region", cfg.Region).Strs("versions", urls.Versions()).Msg("starting server")
	if err := server.ListenAndServe(); err != nil {
		exit(logger, err, "serve failed")
	}
}
