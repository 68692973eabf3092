package seed

import (
	_ "embed"
	"fmt"

	"github.com/fashionpod/fashionpod/internal/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

type Fixtures struct {
	Users    []UserFixture    `yaml:"users"`
	Products []ProductFixture `yaml:"products"`
}

type UserFixture struct {
	Email string      `yaml:"email"`
	Name  string      `yaml:"name"`
	Role  models.Role `yaml:"role"`
}

type ProductFixture struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Price       decimal.Decimal `yaml:"price"`
	Categories  []string        `yaml:"categories"`
	Tags        []string        `yaml:"tags"`
	Quantity    int             `yaml:"quantity"`
	Image       string          `yaml:"image"`
}

// LoadFixtures parses the embedded demo data.
func LoadFixtures() (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(fixturesYAML, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	for _, u := range f.Users {
		if !u.Role.Valid() {
			return nil, fmt.Errorf("fixture user %s has invalid role %q", u.Email, u.Role)
		}
	}
	return &f, nil
}

func (u UserFixture) model() models.User {
	name := u.Name
	return models.User{Email: u.Email, Name: &name, Role: u.Role}
}

func (p ProductFixture) model() models.Product {
	description := p.Description
	return models.Product{
		Name:          p.Name,
		Description:   &description,
		Price:         p.Price,
		Categories:    pq.StringArray(p.Categories),
		Tags:          pq.StringArray(p.Tags),
		Quantity:      p.Quantity,
		TrackQuantity: true,
		Status:        models.ProductStatusActive,
	}
}
