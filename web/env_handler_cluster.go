package web

import (
	"errors"
	"net/http"
	"pcluster/pcui/pcapi"
	"pcluster/pcui/pcluster"
	"pcluster/pcui/wizard"
	"strconv"

	"golang.org/x/sync/errgroup"
)

const defaultClusterUser = "ec2-user"

type clusterCreateRequest struct {
	ClusterName            string   `json:"clusterName"`
	ClusterConfiguration   string   `json:"clusterConfiguration"`
	DisableRollback        bool     `json:"disableRollback"`
	ValidationFailureLevel string   `json:"validationFailureLevel"`
	SuppressValidators     []string `json:"suppressValidators"`
}

type clusterUpdateRequest struct {
	ClusterConfiguration string `json:"clusterConfiguration"`
	ForceUpdate          bool   `json:"forceUpdate"`
}

type operationResponse struct {
	*pcluster.ClusterOperationResult
	Message       string                `json:"message,omitempty"`
	Notifications []wizard.Notification `json:"notifications"`
}

type clusterDetailResponse struct {
	*pcluster.ClusterDescription
	Instances []*pcluster.Instance `json:"instances"`
}

func queryBool(req *http.Request, name string) bool {
	value, err := strconv.ParseBool(req.URL.Query().Get(name))
	return err == nil && value
}

// operationError answers a failed create or update. Validation details of
// the cluster API become notifications; a dry run the API would accept
// comes back as 412 and is reported as success.
func (env *Environ) operationError(rw http.ResponseWriter, req *http.Request, err error, message string, dryRun bool) {
	var apiErr *pcapi.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode >= 500 {
		env.fail(rw, req, err, message)
		return
	}
	details := apiErr.CreateErrors()
	status := apiErr.StatusCode
	if dryRun && status == http.StatusPreconditionFailed {
		status = http.StatusOK
	}
	env.render.JSON(rw, status, operationResponse{
		ClusterOperationResult: &pcluster.ClusterOperationResult{
			ValidationMessages: details.ValidationMessages,
		},
		Message:       details.Message,
		Notifications: wizard.ErrorsToNotifications(details),
	})
}

func (env *Environ) ClusterList(rw http.ResponseWriter, req *http.Request) {
	clusters, err := env.services.Clusters.List(env.context(req), env.region(req))
	if err != nil {
		env.fail(rw, req, err, "failed to list clusters")
		return
	}
	env.render.JSON(rw, http.StatusOK, map[string]interface{}{"clusters": clusters})
}

func (env *Environ) ClusterCopyCandidates(rw http.ResponseWriter, req *http.Request) {
	version := req.URL.Query().Get("version")
	if version == "" {
		env.error(rw, req, nil, "version is required", http.StatusBadRequest)
		return
	}
	clusters, err := env.services.Clusters.CopyCandidates(env.context(req), env.region(req), version)
	if err != nil {
		env.fail(rw, req, err, "failed to list clusters")
		return
	}
	env.render.JSON(rw, http.StatusOK, map[string]interface{}{"clusters": clusters})
}

func (env *Environ) ClusterDetail(rw http.ResponseWriter, req *http.Request) {
	name := env.vars(req)["name"]
	region := env.region(req)
	var description *pcluster.ClusterDescription
	var instances []*pcluster.Instance

	group, ctx := errgroup.WithContext(env.context(req))
	group.Go(func() (err error) {
		description, err = env.services.Clusters.Get(ctx, name, region)
		return err
	})
	group.Go(func() (err error) {
		instances, err = env.services.Clusters.Instances(ctx, name, region)
		return err
	})
	if err := group.Wait(); err != nil {
		env.fail(rw, req, err, "failed to describe cluster")
		return
	}
	if instances == nil {
		instances = []*pcluster.Instance{}
	}
	env.render.JSON(rw, http.StatusOK, clusterDetailResponse{ClusterDescription: description, Instances: instances})
}

func (env *Environ) ClusterCreate(rw http.ResponseWriter, req *http.Request) {
	form := clusterCreateRequest{}
	if !env.decodeBody(rw, req, &form) {
		return
	}
	dryRun := queryBool(req, "dryrun")
	result, err := env.services.Clusters.Create(env.context(req), pcluster.ClusterCreateParams{
		Name:                   form.ClusterName,
		Configuration:          form.ClusterConfiguration,
		Region:                 env.region(req),
		DryRun:                 dryRun,
		DisableRollback:        form.DisableRollback,
		ValidationFailureLevel: form.ValidationFailureLevel,
		SuppressValidators:     form.SuppressValidators,
	})
	if err != nil {
		env.operationError(rw, req, err, "failed to create cluster", dryRun)
		return
	}
	env.logger.Info().Str("cluster", form.ClusterName).Str("user", env.currentUser(req).Id).Bool("dryrun", dryRun).Msg("cluster create requested")
	env.render.JSON(rw, http.StatusAccepted, operationResponse{ClusterOperationResult: result, Notifications: []wizard.Notification{}})
}

func (env *Environ) ClusterUpdate(rw http.ResponseWriter, req *http.Request) {
	form := clusterUpdateRequest{}
	if !env.decodeBody(rw, req, &form) {
		return
	}
	name := env.vars(req)["name"]
	dryRun := queryBool(req, "dryrun")
	result, err := env.services.Clusters.Update(env.context(req), pcluster.ClusterUpdateParams{
		Name:          name,
		Configuration: form.ClusterConfiguration,
		Region:        env.region(req),
		DryRun:        dryRun,
		ForceUpdate:   form.ForceUpdate,
	})
	if err != nil {
		env.operationError(rw, req, err, "failed to update cluster", dryRun)
		return
	}
	env.logger.Info().Str("cluster", name).Str("user", env.currentUser(req).Id).Bool("dryrun", dryRun).Msg("cluster update requested")
	env.render.JSON(rw, http.StatusAccepted, operationResponse{ClusterOperationResult: result, Notifications: []wizard.Notification{}})
}

func (env *Environ) ClusterDelete(rw http.ResponseWriter, req *http.Request) {
	name := env.vars(req)["name"]
	result, err := env.services.Clusters.Delete(env.context(req), name, env.region(req))
	if err != nil {
		env.fail(rw, req, err, "failed to delete cluster")
		return
	}
	env.logger.Info().Str("cluster", name).Str("user", env.currentUser(req).Id).Msg("cluster delete requested")
	env.render.JSON(rw, http.StatusAccepted, result)
}

type computeFleetRequest struct {
	Status pcluster.ComputeFleetStatus `json:"status"`
}

func (env *Environ) ClusterComputeFleet(rw http.ResponseWriter, req *http.Request) {
	form := computeFleetRequest{}
	if !env.decodeBody(rw, req, &form) {
		return
	}
	name := env.vars(req)["name"]
	if err := env.services.Clusters.UpdateComputeFleet(env.context(req), name, env.region(req), form.Status); err != nil {
		env.fail(rw, req, err, "failed to update compute fleet")
		return
	}
	env.render.JSON(rw, http.StatusOK, map[string]interface{}{"status": form.Status})
}

func (env *Environ) ClusterConfiguration(rw http.ResponseWriter, req *http.Request) {
	config, err := env.services.Clusters.Configuration(env.context(req), env.vars(req)["name"], env.region(req))
	if err != nil {
		env.fail(rw, req, err, "failed to load cluster configuration")
		return
	}
	env.render.Text(rw, http.StatusOK, config)
}

func clusterUser(req *http.Request) string {
	if user := req.URL.Query().Get("user"); user != "" {
		return user
	}
	return defaultClusterUser
}

func (env *Environ) ClusterDcvSession(rw http.ResponseWriter, req *http.Request) {
	name := env.vars(req)["name"]
	headNode, err := env.services.Clusters.HeadNode(env.context(req), name, env.region(req))
	if err != nil {
		env.fail(rw, req, err, "failed to find head node")
		return
	}
	session, err := env.services.Dcv.Session(req.Context(), headNode.InstanceId, clusterUser(req))
	if err != nil {
		env.fail(rw, req, err, "failed to start dcv session")
		return
	}
	host := headNode.PublicIpAddress
	if host == "" {
		host = headNode.PrivateIpAddress
	}
	env.render.JSON(rw, http.StatusOK, map[string]interface{}{
		"port":          session.Port,
		"session_id":    session.SessionId,
		"session_token": session.SessionToken,
		"url":           session.URL(host),
	})
}

// ClusterHeadNodeLinks returns the AWS console addresses of a shell and of
// the file browser on the head node.
func (env *Environ) ClusterHeadNodeLinks(rw http.ResponseWriter, req *http.Request) {
	region := env.region(req)
	headNode, err := env.services.Clusters.HeadNode(env.context(req), env.vars(req)["name"], region)
	if err != nil {
		env.fail(rw, req, err, "failed to find head node")
		return
	}
	env.render.JSON(rw, http.StatusOK, map[string]string{
		"instanceId": headNode.InstanceId,
		"shell":      pcluster.ShellURL(region, headNode.InstanceId),
		"filesystem": pcluster.FileSystemURL(region, headNode.InstanceId, clusterUser(req)),
	})
}
