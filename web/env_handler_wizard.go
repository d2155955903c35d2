package web

import (
	"context"
	"net/http"
	"pcluster/pcui/pcapi"
	"pcluster/pcui/pcluster"
	"pcluster/pcui/store"
	"pcluster/pcui/wizard"
)

// wizardState returns the wizard store of the session, saving the session
// when it gets its first wizard id.
func (env *Environ) wizardState(rw http.ResponseWriter, req *http.Request) (*store.Store, string, error) {
	session := env.Session(req)
	id, created := session.WizardId()
	if created {
		if err := session.Save(req, rw); err != nil {
			return nil, "", err
		}
	}
	return env.wizards.Get(id), id, nil
}

func (env *Environ) WizardStateGet(rw http.ResponseWriter, req *http.Request) {
	state, _, err := env.wizardState(rw, req)
	if err != nil {
		env.error(rw, req, err, "session save failed", http.StatusInternalServerError)
		return
	}
	raw := req.URL.Query().Get("path")
	if raw == "" {
		env.render.JSON(rw, http.StatusOK, map[string]interface{}{"path": "", "value": state.Snapshot()})
		return
	}
	env.render.JSON(rw, http.StatusOK, map[string]interface{}{"path": raw, "value": state.Get(store.ParsePath(raw))})
}

func (env *Environ) WizardStateSet(rw http.ResponseWriter, req *http.Request) {
	state, _, err := env.wizardState(rw, req)
	if err != nil {
		env.error(rw, req, err, "session save failed", http.StatusInternalServerError)
		return
	}
	raw := req.URL.Query().Get("path")
	var value interface{}
	if !env.decodeBody(rw, req, &value) {
		return
	}
	if err := state.Set(store.ParsePath(raw), value); err != nil {
		env.error(rw, req, err, "cannot set wizard state", http.StatusBadRequest)
		return
	}
	env.render.JSON(rw, http.StatusOK, map[string]interface{}{"path": raw, "value": value})
}

// WizardStateClear removes the value at path, the whole state when the path
// is empty.
func (env *Environ) WizardStateClear(rw http.ResponseWriter, req *http.Request) {
	state, id, err := env.wizardState(rw, req)
	if err != nil {
		env.error(rw, req, err, "session save failed", http.StatusInternalServerError)
		return
	}
	raw := req.URL.Query().Get("path")
	if raw == "" {
		env.wizards.Drop(id)
	} else {
		state.Clear(store.ParsePath(raw))
	}
	rw.WriteHeader(http.StatusNoContent)
}

func (env *Environ) validator(req *http.Request) *wizard.Validator {
	return &wizard.Validator{Features: env.services.Features, Region: env.region(req)}
}

// existingNames is the set of cluster names a new cluster must not take.
// An edited cluster keeps its own name, so nothing is checked then.
func (env *Environ) existingNames(ctx context.Context, req *http.Request, state *store.Store) (map[string]bool, error) {
	if state.GetBool(wizard.EditingPath) {
		return map[string]bool{}, nil
	}
	return env.services.Clusters.Names(ctx, env.region(req))
}

func (env *Environ) WizardValidate(rw http.ResponseWriter, req *http.Request) {
	state, _, err := env.wizardState(rw, req)
	if err != nil {
		env.error(rw, req, err, "session save failed", http.StatusInternalServerError)
		return
	}
	step := env.vars(req)["step"]
	existing := map[string]bool{}
	if step == wizard.StepCluster {
		if existing, err = env.existingNames(env.context(req), req, state); err != nil {
			env.fail(rw, req, err, "failed to list clusters")
			return
		}
	}
	valid, err := env.validator(req).Validate(state, step, existing)
	if err != nil {
		env.error(rw, req, err, "cannot validate", http.StatusBadRequest)
		return
	}
	env.render.JSON(rw, http.StatusOK, map[string]interface{}{
		"valid":  valid,
		"errors": state.Get(wizard.ErrorsPath.Append(step)),
	})
}

// WizardSubmit validates every step and creates the cluster, or updates it
// when the wizard edits an existing one.
func (env *Environ) WizardSubmit(rw http.ResponseWriter, req *http.Request) {
	state, id, err := env.wizardState(rw, req)
	if err != nil {
		env.error(rw, req, err, "session save failed", http.StatusInternalServerError)
		return
	}
	ctx := env.context(req)
	if version := state.GetString(wizard.VersionPath); version != "" {
		ctx = pcapi.WithVersion(ctx, version)
	}
	existing, err := env.existingNames(ctx, req, state)
	if err != nil {
		env.fail(rw, req, err, "failed to list clusters")
		return
	}
	valid, err := env.validator(req).ValidateAll(state, existing)
	if err != nil {
		env.error(rw, req, err, "cannot validate", http.StatusBadRequest)
		return
	}
	if !valid {
		env.render.JSON(rw, http.StatusBadRequest, map[string]interface{}{
			"code":    http.StatusBadRequest,
			"message": "wizard validation failed",
			"errors":  state.Get(wizard.ErrorsPath),
		})
		return
	}
	config, _ := state.Get(wizard.ConfigPath).(map[string]interface{})
	document, err := wizard.EncodeConfig(config)
	if err != nil {
		env.error(rw, req, err, "cannot render configuration", http.StatusBadRequest)
		return
	}

	name := state.GetString(wizard.NamePath)
	dryRun := queryBool(req, "dryrun")
	var result *pcluster.ClusterOperationResult
	if state.GetBool(wizard.EditingPath) {
		result, err = env.services.Clusters.Update(ctx, pcluster.ClusterUpdateParams{
			Name:          name,
			Configuration: document,
			Region:        env.region(req),
			DryRun:        dryRun,
			ForceUpdate:   queryBool(req, "forceUpdate"),
		})
	} else {
		result, err = env.services.Clusters.Create(ctx, pcluster.ClusterCreateParams{
			Name:          name,
			Configuration: document,
			Region:        env.region(req),
			DryRun:        dryRun,
		})
	}
	if err != nil {
		env.operationError(rw, req, err, "failed to submit cluster", dryRun)
		return
	}
	env.logger.Info().Str("cluster", name).Str("user", env.currentUser(req).Id).Bool("dryrun", dryRun).Msg("wizard submitted")
	if !dryRun {
		env.wizards.Drop(id)
	}
	env.render.JSON(rw, http.StatusAccepted, operationResponse{ClusterOperationResult: result, Notifications: []wizard.Notification{}})
}

// WizardLoadCluster copies the configuration of a cluster into the wizard.
// With edit=true the wizard updates that cluster on submit.
func (env *Environ) WizardLoadCluster(rw http.ResponseWriter, req *http.Request) {
	state, _, err := env.wizardState(rw, req)
	if err != nil {
		env.error(rw, req, err, "session save failed", http.StatusInternalServerError)
		return
	}
	name := req.URL.Query().Get("cluster")
	if name == "" {
		env.error(rw, req, nil, "cluster is required", http.StatusBadRequest)
		return
	}
	document, err := env.services.Clusters.Configuration(env.context(req), name, env.region(req))
	if err != nil {
		env.fail(rw, req, err, "failed to load cluster configuration")
		return
	}
	config, err := wizard.DecodeConfig(document)
	if err != nil {
		env.error(rw, req, err, "invalid cluster configuration", http.StatusBadRequest)
		return
	}
	editing := queryBool(req, "edit")
	state.Clear(wizard.WizardPath)
	state.Set(wizard.ConfigPath, config)
	state.Set(wizard.EditingPath, editing)
	if editing {
		state.Set(wizard.NamePath, name)
	}
	if version := req.URL.Query().Get("version"); version != "" {
		state.Set(wizard.VersionPath, version)
	}
	env.render.JSON(rw, http.StatusOK, map[string]interface{}{"path": wizard.WizardPath.String(), "value": state.Get(wizard.WizardPath)})
}
