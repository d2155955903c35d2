package pcluster

import (
	"pcluster/pcui/util"
	"pcluster/pcui/wizard"
	"time"
)

type TemplateRepository interface {
	List() ([]*Template, error)
	Get(name string) (*Template, error)
	Save(template *Template) error
	Delete(name string) error
}

type TemplateService struct {
	TemplateRepository
	now func() time.Time
}

func NewTemplateService(repo TemplateRepository) *TemplateService {
	return &TemplateService{TemplateRepository: repo, now: time.Now}
}

// Save validates the template name and configuration and stores it,
// replacing a template of the same name.
func (service *TemplateService) Save(template *Template) error {
	if ok, kind := wizard.ValidateClusterName(nil, template.Name); !ok {
		return ValidationError{Field: "name", Kind: kind}
	}
	if _, err := wizard.DecodeConfig(template.Configuration); err != nil {
		return ValidationError{Field: "configuration", Kind: wizard.ErrInvalidConfiguration}
	}
	now := service.now().UTC()
	template.UpdatedAt = now
	existing, err := service.TemplateRepository.Get(template.Name)
	switch {
	case err == nil:
		template.CreatedAt = existing.CreatedAt
	case err == ErrTemplateNotFound:
		template.CreatedAt = now
	default:
		return util.NewError(err, "cannot load template %s", template.Name)
	}
	return service.TemplateRepository.Save(template)
}

// Load returns the configuration of a template in the shape the wizard
// state keeps it.
func (service *TemplateService) Load(name string) (map[string]interface{}, error) {
	template, err := service.TemplateRepository.Get(name)
	if err != nil {
		return nil, err
	}
	return wizard.DecodeConfig(template.Configuration)
}
