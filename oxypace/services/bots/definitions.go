// Package bots provisions, checks and maintains the automated accounts that
// publish ingested content into their own portals.
package bots

import (
	"fmt"
	"io"
	"os"
	"strings"

	"oxypace/oxypace/validation"

	"gopkg.in/yaml.v3"
)

const defaultMaxItems = 10

// Definition describes one bot account, its portal and the page it reads from.
type Definition struct {
	Username    string     `yaml:"username" json:"username" validate:"required,min=3,max=30,username"`
	Email       string     `yaml:"email" json:"email" validate:"required,email"`
	DisplayName string     `yaml:"display_name" json:"display_name" validate:"max=50"`
	Bio         string     `yaml:"bio" json:"bio" validate:"max=500"`
	Portal      PortalSpec `yaml:"portal" json:"portal"`
	Source      SourceSpec `yaml:"source" json:"source"`
}

type PortalSpec struct {
	Slug        string `yaml:"slug" json:"slug" validate:"required,min=2,max=40,slug"`
	Name        string `yaml:"name" json:"name" validate:"required,max=80"`
	Description string `yaml:"description" json:"description" validate:"max=500"`
}

// SourceSpec tells the ingester where items live on the source page.
type SourceSpec struct {
	URL      string `yaml:"url" json:"url" validate:"omitempty,url"`
	Item     string `yaml:"item" json:"item"`
	Title    string `yaml:"title" json:"title"`
	Link     string `yaml:"link" json:"link"`
	Image    string `yaml:"image" json:"image"`
	MaxItems int    `yaml:"max_items" json:"max_items" validate:"gte=0,lte=100"`
}

type file struct {
	Bots []Definition `yaml:"bots"`
}

// LoadDefinitions reads bot definitions from a YAML file.
func LoadDefinitions(path string) ([]Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bot definitions: %w", err)
	}
	defer f.Close()
	return ParseDefinitions(f)
}

func ParseDefinitions(r io.Reader) ([]Definition, error) {
	var doc file
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode bot definitions: %w", err)
	}
	seen := map[string]bool{}
	for i := range doc.Bots {
		def := &doc.Bots[i]
		def.Email = strings.ToLower(strings.TrimSpace(def.Email))
		if def.DisplayName == "" {
			def.DisplayName = def.Username
		}
		if def.Source.MaxItems == 0 {
			def.Source.MaxItems = defaultMaxItems
		}
		if verr := validation.Check(def); verr != nil {
			return nil, fmt.Errorf("bot %d (%s): %w", i+1, def.Username, verr)
		}
		key := strings.ToLower(def.Username)
		if seen[key] {
			return nil, fmt.Errorf("bot %s is defined twice", def.Username)
		}
		seen[key] = true
	}
	return doc.Bots, nil
}

// Find returns the definition for username, ignoring case.
func Find(defs []Definition, username string) (Definition, bool) {
	for _, d := range defs {
		if strings.EqualFold(d.Username, username) {
			return d, true
		}
	}
	return Definition{}, false
}

// Ingestible reports whether the definition names a source to read.
func (d Definition) Ingestible() bool {
	return d.Source.URL != "" && d.Source.Item != ""
}
