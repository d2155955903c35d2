package filesystem

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"pcluster/pcui/pcluster"
	"pcluster/pcui/util"
	"sort"
	"sync"
)

// TemplateStorage keeps cluster templates in a single JSON file.
type TemplateStorage struct {
	filename string
	mu       sync.Mutex
}

func NewTemplateStorage(filename string) (*TemplateStorage, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return nil, util.NewError(err, "cannot create base directory")
	}
	return &TemplateStorage{filename: filename}, nil
}

func (storage *TemplateStorage) load() (map[string]*pcluster.Template, error) {
	templates := map[string]*pcluster.Template{}
	content, err := ioutil.ReadFile(storage.filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return templates, nil
		}
		return nil, util.NewError(err, "cannot open templates file")
	}
	list := []*pcluster.Template{}
	if err := json.Unmarshal(content, &list); err != nil {
		return nil, util.NewError(err, "cannot parse templates file")
	}
	for _, template := range list {
		templates[template.Name] = template
	}
	return templates, nil
}

// save writes to a temporary file first so readers never see a partial
// file.
func (storage *TemplateStorage) save(templates map[string]*pcluster.Template) error {
	content, err := json.MarshalIndent(sorted(templates), "", "  ")
	if err != nil {
		return util.NewError(err, "cannot marshal templates")
	}
	tmp := storage.filename + ".tmp"
	if err := ioutil.WriteFile(tmp, content, 0644); err != nil {
		return util.NewError(err, "cannot write templates file")
	}
	if err := os.Rename(tmp, storage.filename); err != nil {
		return util.NewError(err, "cannot replace templates file")
	}
	return nil
}

func sorted(templates map[string]*pcluster.Template) []*pcluster.Template {
	list := make([]*pcluster.Template, 0, len(templates))
	for _, template := range templates {
		list = append(list, template)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func (storage *TemplateStorage) List() ([]*pcluster.Template, error) {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	templates, err := storage.load()
	if err != nil {
		return nil, err
	}
	return sorted(templates), nil
}

func (storage *TemplateStorage) Get(name string) (*pcluster.Template, error) {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	templates, err := storage.load()
	if err != nil {
		return nil, err
	}
	template, ok := templates[name]
	if !ok {
		return nil, pcluster.ErrTemplateNotFound
	}
	return template, nil
}

func (storage *TemplateStorage) Save(template *pcluster.Template) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	templates, err := storage.load()
	if err != nil {
		return err
	}
	templates[template.Name] = template
	return storage.save(templates)
}

func (storage *TemplateStorage) Delete(name string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	templates, err := storage.load()
	if err != nil {
		return err
	}
	if _, ok := templates[name]; !ok {
		return pcluster.ErrTemplateNotFound
	}
	delete(templates, name)
	return storage.save(templates)
}
