package web

import (
	"net/http"
	"pcluster/pcui/pcluster"
)

func (env *Environ) OfficialImageList(rw http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()
	images, err := env.services.Images.ListOfficial(env.context(req), env.region(req), query.Get("os"), query.Get("architecture"))
	if err != nil {
		env.fail(rw, req, err, "failed to list official images")
		return
	}
	env.render.JSON(rw, http.StatusOK, map[string]interface{}{"images": images})
}

func (env *Environ) CustomImageList(rw http.ResponseWriter, req *http.Request) {
	var images []*pcluster.ImageInfoSummary
	var err error
	if status := req.URL.Query().Get("imageStatus"); status != "" {
		images, err = env.services.Images.List(env.context(req), env.region(req), pcluster.ImageStatusFilter(status))
	} else {
		images, err = env.services.Images.ListAll(env.context(req), env.region(req))
	}
	if err != nil {
		env.fail(rw, req, err, "failed to list images")
		return
	}
	env.render.JSON(rw, http.StatusOK, map[string]interface{}{"images": images})
}

func (env *Environ) CustomImageDetail(rw http.ResponseWriter, req *http.Request) {
	image, err := env.services.Images.Get(env.context(req), env.vars(req)["id"], env.region(req))
	if err != nil {
		env.fail(rw, req, err, "failed to describe image")
		return
	}
	env.render.JSON(rw, http.StatusOK, image)
}

type imageBuildRequest struct {
	ImageId            string `json:"imageId"`
	ImageConfiguration string `json:"imageConfiguration"`
}

func (env *Environ) CustomImageBuild(rw http.ResponseWriter, req *http.Request) {
	form := imageBuildRequest{}
	if !env.decodeBody(rw, req, &form) {
		return
	}
	image, err := env.services.Images.Build(req.Context(), pcluster.ImageBuildParams{
		ImageId:       form.ImageId,
		Configuration: form.ImageConfiguration,
		Region:        env.region(req),
		Version:       req.URL.Query().Get("version"),
	})
	if err != nil {
		env.operationError(rw, req, err, "failed to build image", false)
		return
	}
	env.logger.Info().Str("image", form.ImageId).Str("user", env.currentUser(req).Id).Msg("image build requested")
	env.render.JSON(rw, http.StatusAccepted, map[string]interface{}{"image": image})
}

func (env *Environ) CustomImageDelete(rw http.ResponseWriter, req *http.Request) {
	id := env.vars(req)["id"]
	image, err := env.services.Images.Delete(env.context(req), id, env.region(req), queryBool(req, "force"))
	if err != nil {
		env.fail(rw, req, err, "failed to delete image")
		return
	}
	env.logger.Info().Str("image", id).Str("user", env.currentUser(req).Id).Msg("image delete requested")
	env.render.JSON(rw, http.StatusAccepted, map[string]interface{}{"image": image})
}
