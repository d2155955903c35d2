package config

import (
	"fmt"
	"io/ioutil"
	"pcluster/pcui/pcapi"
	"pcluster/pcui/util"

	"github.com/hashicorp/hcl"
	"github.com/imdario/mergo"
	"github.com/rs/zerolog"
)

// Regions where the cluster API is available.
var Regions = []string{
	"us-east-2", "us-east-1", "us-west-1", "us-west-2",
	"af-south-1", "ap-east-1", "ap-south-1", "ap-northeast-2",
	"ap-southeast-1", "ap-southeast-2", "ap-northeast-1",
	"ca-central-1", "cn-north-1", "cn-northwest-1",
	"eu-central-1", "eu-west-1", "eu-west-2",
	"eu-south-1", "eu-west-3", "eu-north-1", "me-south-1",
	"sa-east-1", "us-gov-east-1", "us-gov-west-1", "il-central-1",
}

type UserWebConfig struct {
	Id             string   `hcl:",key"`
	FullName       string   `hcl:"full_name"`
	Email          string   `hcl:"email"`
	HashedPassword string   `hcl:"hashed_password"`
	Groups         []string `hcl:"groups"`
}

type WebConfig struct {
	Listen          string          `hcl:"listen"`
	Debug           bool            `hcl:"debug"`
	StaticDir       string          `hcl:"static_dir"`
	DevFrontendURL  string          `hcl:"dev_frontend_url"`
	SessionSecret   string          `hcl:"session_secret"`
	SessionSecure   bool            `hcl:"session_secure"`
	SessionDomain   string          `hcl:"session_domain"`
	SessionMaxAge   int             `hcl:"session_max_age"`
	TrustedProxies  []string        `hcl:"trusted_proxies"`
	RequestMaxBytes int             `hcl:"request_max_bytes"`
	LoginRate       float64         `hcl:"login_rate"`
	LoginBurst      int             `hcl:"login_burst"`
	LoginUnlimited  bool            `hcl:"login_unlimited"`
	WizardStateTTL  int             `hcl:"wizard_state_ttl"`
	Users           []UserWebConfig `hcl:"user"`
}

type OIDCConfig struct {
	Issuer       string   `hcl:"issuer"`
	ClientId     string   `hcl:"client_id"`
	ClientSecret string   `hcl:"client_secret"`
	RedirectURL  string   `hcl:"redirect_url"`
	AuthDomain   string   `hcl:"auth_domain"`
	Scopes       []string `hcl:"scopes"`
	AdminGroup   string   `hcl:"admin_group"`
	UserPoolId   string   `hcl:"user_pool_id"`
}

type APIConfig struct {
	BaseURL  string   `hcl:"base_url"`
	Versions []string `hcl:"versions"`
}

// CostConfig sets up cost monitoring. Empty values are replaced by
// defaults, so turning the feature off takes disabled = true.
type CostConfig struct {
	Disabled       bool     `hcl:"disabled"`
	AllocationTags []string `hcl:"allocation_tags"`
}

type SSMConfig struct {
	LogGroup string `hcl:"log_group"`
}

type SubscribeConfig struct {
	Event     string `hcl:",key"`
	Script    string `hcl:"script"`
	Mandatory bool   `hcl:"mandatory"`
}

// FeatureConfig enables a feature from an API version on top of the
// built-in table.
type FeatureConfig struct {
	Name    string `hcl:",key"`
	Version string `hcl:"version"`
}

type Config struct {
	LogLevel     string            `hcl:"log_level"`
	Env          string            `hcl:"env"`
	Region       string            `hcl:"region"`
	TemplateFile string            `hcl:"template_file"`
	Web          WebConfig         `hcl:"web"`
	OIDC         OIDCConfig        `hcl:"oidc"`
	API          APIConfig         `hcl:"api"`
	Cost         CostConfig        `hcl:"cost"`
	SSM          SSMConfig         `hcl:"ssm"`
	Subscribes   []SubscribeConfig `hcl:"subscribe"`
	Features     []FeatureConfig   `hcl:"feature"`
}

func Default() *Config {
	return &Config{
		LogLevel:     "info",
		Env:          "prod",
		TemplateFile: "~/.pcui/templates.json",
		Web: WebConfig{
			Listen:          ":5001",
			StaticDir:       "frontend/public",
			DevFrontendURL:  "http://localhost:3000",
			SessionMaxAge:   12 * 60 * 60,
			RequestMaxBytes: 5 * 1024 * 1024,
			LoginRate:       1,
			LoginBurst:      5,
			WizardStateTTL:  24 * 60 * 60,
		},
		OIDC: OIDCConfig{
			Scopes:     []string{"openid", "email"},
			AdminGroup: "admin",
		},
		Cost: CostConfig{
			AllocationTags: []string{"parallelcluster:cluster-name"},
		},
		SSM: SSMConfig{
			LogGroup: "/aws/ssm/pcui",
		},
	}
}

// CostEnabled reports whether cost monitoring is configured.
func (c *Config) CostEnabled() bool {
	return !c.Cost.Disabled && len(c.Cost.AllocationTags) > 0
}

// LoginLimit is the per-host password login rate, zero means unlimited.
func (c *Config) LoginLimit() (float64, int) {
	if c.Web.LoginUnlimited {
		return 0, 0
	}
	return c.Web.LoginRate, c.Web.LoginBurst
}

func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

// URLs parses the API base URL setting.
func (c *Config) URLs() (*pcapi.BaseURLs, error) {
	return pcapi.ParseBaseURLs(c.API.BaseURL, c.API.Versions)
}

func Parse(filename string) (*Config, error) {
	content, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, util.NewError(err, "cannot read configuration file")
	}
	return ParseString(string(content))
}

func ParseString(content string) (*Config, error) {
	config := &Config{}
	if err := hcl.Unmarshal([]byte(content), config); err != nil {
		return nil, util.NewError(err, "invalid configuration format")
	}
	if err := mergo.Merge(config, Default()); err != nil {
		return nil, util.NewError(err, "cannot apply default configuration value")
	}
	config.TemplateFile = util.ExpandHomeDir(config.TemplateFile)
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level '%s'", c.LogLevel)
	}
	if c.Env != "dev" && c.Env != "prod" {
		return fmt.Errorf("invalid env '%s', must be dev or prod", c.Env)
	}
	if !util.ArrayContainsString(Regions, c.Region) {
		return fmt.Errorf("unknown region '%s'", c.Region)
	}
	if c.Web.SessionSecret == "" {
		return fmt.Errorf("web.session_secret is required")
	}
	if _, err := c.URLs(); err != nil {
		return util.NewError(err, "invalid api.base_url")
	}
	users := map[string]struct{}{}
	for _, user := range c.Web.Users {
		if _, exists := users[user.Id]; exists {
			return fmt.Errorf("duplicate web user '%s'", user.Id)
		}
		users[user.Id] = struct{}{}
		if user.HashedPassword == "" {
			return fmt.Errorf("no hashed_password for web user '%s'", user.Id)
		}
	}
	if c.OIDC.Issuer != "" && (c.OIDC.ClientId == "" || c.OIDC.RedirectURL == "") {
		return fmt.Errorf("oidc requires client_id and redirect_url")
	}
	if c.OIDC.Issuer == "" && len(c.Web.Users) == 0 {
		return fmt.Errorf("no authentication configured, add an oidc block or web users")
	}
	for _, sub := range c.Subscribes {
		if sub.Script == "" {
			return fmt.Errorf("no script for subscription to '%s'", sub.Event)
		}
	}
	for _, feature := range c.Features {
		if feature.Version == "" {
			return fmt.Errorf("no version for feature '%s'", feature.Name)
		}
	}
	return nil
}
