package web

import (
	"net/http"
	"pcluster/pcui/pcluster"
	"pcluster/pcui/wizard"
)

func (env *Environ) TemplateList(rw http.ResponseWriter, req *http.Request) {
	templates, err := env.services.Templates.List()
	if err != nil {
		env.fail(rw, req, err, "failed to list templates")
		return
	}
	env.render.JSON(rw, http.StatusOK, map[string]interface{}{"templates": templates})
}

func (env *Environ) TemplateDetail(rw http.ResponseWriter, req *http.Request) {
	template, err := env.services.Templates.Get(env.vars(req)["name"])
	if err != nil {
		env.fail(rw, req, err, "failed to load template")
		return
	}
	env.render.JSON(rw, http.StatusOK, template)
}

type templateSaveRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Version       string `json:"version"`
	Configuration string `json:"configuration"`
}

// TemplateSave stores a template. Without a configuration in the body the
// current wizard configuration is saved.
func (env *Environ) TemplateSave(rw http.ResponseWriter, req *http.Request) {
	form := templateSaveRequest{}
	if !env.decodeBody(rw, req, &form) {
		return
	}
	if form.Configuration == "" {
		state, _, err := env.wizardState(rw, req)
		if err != nil {
			env.error(rw, req, err, "session save failed", http.StatusInternalServerError)
			return
		}
		config, _ := state.Get(wizard.ConfigPath).(map[string]interface{})
		if len(config) == 0 {
			env.error(rw, req, nil, "wizard has no configuration", http.StatusBadRequest)
			return
		}
		if form.Configuration, err = wizard.EncodeConfig(config); err != nil {
			env.error(rw, req, err, "cannot render configuration", http.StatusBadRequest)
			return
		}
		if form.Version == "" {
			form.Version = state.GetString(wizard.VersionPath)
		}
	}
	template := &pcluster.Template{
		Name:          form.Name,
		Description:   form.Description,
		Version:       form.Version,
		Configuration: form.Configuration,
	}
	if err := env.services.Templates.Save(template); err != nil {
		env.fail(rw, req, err, "failed to save template")
		return
	}
	env.logger.Info().Str("template", template.Name).Str("user", env.currentUser(req).Id).Msg("template saved")
	env.render.JSON(rw, http.StatusOK, template)
}

func (env *Environ) TemplateDelete(rw http.ResponseWriter, req *http.Request) {
	name := env.vars(req)["name"]
	if err := env.services.Templates.Delete(name); err != nil {
		env.fail(rw, req, err, "failed to delete template")
		return
	}
	env.logger.Info().Str("template", name).Str("user", env.currentUser(req).Id).Msg("template deleted")
	rw.WriteHeader(http.StatusNoContent)
}

// TemplateLoad replaces the wizard configuration with the template one.
func (env *Environ) TemplateLoad(rw http.ResponseWriter, req *http.Request) {
	name := env.vars(req)["name"]
	template, err := env.services.Templates.Get(name)
	if err != nil {
		env.fail(rw, req, err, "failed to load template")
		return
	}
	config, err := env.services.Templates.Load(name)
	if err != nil {
		env.fail(rw, req, err, "failed to load template")
		return
	}
	state, _, err := env.wizardState(rw, req)
	if err != nil {
		env.error(rw, req, err, "session save failed", http.StatusInternalServerError)
		return
	}
	state.Set(wizard.ConfigPath, config)
	state.Set(wizard.EditingPath, false)
	if template.Version != "" {
		state.Set(wizard.VersionPath, template.Version)
	}
	env.render.JSON(rw, http.StatusOK, map[string]interface{}{"path": wizard.WizardPath.String(), "value": state.Get(wizard.WizardPath)})
}
