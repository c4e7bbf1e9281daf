package seed

import (
	_ "embed"
	"fmt"

	"simplecms/cmd/internal/domain/schema"

	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var defaultData []byte

type Dataset struct {
	Users      []UserFixture     `yaml:"users"`
	Categories []CategoryFixture `yaml:"categories"`
	Posts      []PostFixture     `yaml:"posts"`
	Notes      []NoteFixture     `yaml:"notes"`
}

type UserFixture struct {
	Key             string `yaml:"key"`
	Name            string `yaml:"name"`
	Email           string `yaml:"email"`
	Password        string `yaml:"password"`
	Affiliation     string `yaml:"affiliation"`
	TwitterID       string `yaml:"twitterId"`
	TwitterUsername string `yaml:"twitterUsername"`
}

type CategoryFixture struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type PostFixture struct {
	Name       string   `yaml:"name"`
	Slug       string   `yaml:"slug"`
	Status     string   `yaml:"status"`
	Author     string   `yaml:"author"`
	Categories []string `yaml:"categories"`
}

type NoteFixture struct {
	Note string `yaml:"note"`
	User string `yaml:"user"`
}

// DefaultDataset returns the fixtures compiled into the binary.
func DefaultDataset() (*Dataset, error) {
	return ParseDataset(defaultData)
}

// ParseDataset decodes fixtures and checks every reference resolves.
func ParseDataset(raw []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("failed to decode seed data: %w", err)
	}

	if err := ds.validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (d *Dataset) validate() error {
	users := make(map[string]bool, len(d.Users))
	for _, u := range d.Users {
		if u.Key == "" || users[u.Key] {
			return fmt.Errorf("seed user %q: key missing or duplicated", u.Name)
		}
		users[u.Key] = true
	}

	categories := make(map[string]bool, len(d.Categories))
	for _, c := range d.Categories {
		if c.Key == "" || categories[c.Key] {
			return fmt.Errorf("seed category %q: key missing or duplicated", c.Name)
		}
		categories[c.Key] = true
	}

	for _, p := range d.Posts {
		if p.Author != "" && !users[p.Author] {
			return fmt.Errorf("seed post %q: unknown author %q", p.Slug, p.Author)
		}
		for _, c := range p.Categories {
			if !categories[c] {
				return fmt.Errorf("seed post %q: unknown category %q", p.Slug, c)
			}
		}
	}

	for _, n := range d.Notes {
		if n.User != "" && !users[n.User] {
			return fmt.Errorf("seed note: unknown user %q", n.User)
		}
	}
	return nil
}

// Counts returns the number of fixtures per list key.
func (d *Dataset) Counts() map[string]int {
	return map[string]int{
		schema.UserList:         len(d.Users),
		schema.PostCategoryList: len(d.Categories),
		schema.PostList:         len(d.Posts),
		schema.NoteList:         len(d.Notes),
	}
}
