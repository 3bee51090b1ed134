package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ksysoev/intakebot/pkg/core"
	"github.com/ksysoev/intakebot/pkg/core/flow"
	"gopkg.in/yaml.v3"
)

const defaultCacheSize = 64

//go:embed questionnaires.yaml
var defaultDocument []byte

type Config struct {
	Path      string `mapstructure:"questionnaires_path"`
	CacheSize int    `mapstructure:"cache_size"`
}

type questionDef struct {
	Eligibility *rangeRule   `yaml:"eligibility"`
	Validate    *rangeRule   `yaml:"validate"`
	ID          string       `yaml:"id"`
	Text        string       `yaml:"text"`
	Kind        flow.Kind    `yaml:"kind"`
	Options     []string     `yaml:"options"`
	Skip        []skipBranch `yaml:"skip"`
	Required    bool         `yaml:"required"`
}

type productDef struct {
	Title     string        `yaml:"title"`
	Questions []questionDef `yaml:"questions"`
}

type document struct {
	Products map[string]productDef `yaml:"products"`
	General  []questionDef         `yaml:"general"`
}

// Catalog serves product questionnaires built from a YAML document: the general health
// questions followed by the product specific ones.
type Catalog struct {
	doc   *document
	cache *lru.Cache[string, *flow.Questionnaire]
}

// New loads the questionnaire document from cfg.Path, or the embedded default when the path is empty,
// and checks that every product questionnaire compiles.
func New(cfg Config) (*Catalog, error) {
	data := defaultDocument

	if cfg.Path != "" {
		var err error

		data, err = os.ReadFile(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read questionnaires: %w", err)
		}
	}

	return Parse(data, cfg.CacheSize)
}

// Parse builds a catalog from a YAML document.
func Parse(data []byte, cacheSize int) (*Catalog, error) {
	var doc document

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse questionnaires: %w", err)
	}

	if len(doc.Products) == 0 {
		return nil, fmt.Errorf("%w: no products defined", flow.ErrInvalidFlowDefinition)
	}

	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}

	cache, err := lru.New[string, *flow.Questionnaire](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create questionnaire cache: %w", err)
	}

	c := &Catalog{
		doc:   &doc,
		cache: cache,
	}

	for id := range doc.Products {
		if _, err := c.Questionnaire(id); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Products lists the products that have a questionnaire, ordered by id.
func (c *Catalog) Products() []core.Product {
	products := make([]core.Product, 0, len(c.doc.Products))

	for id, p := range c.doc.Products {
		products = append(products, core.Product{ID: id, Title: p.Title})
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})

	return products
}

// Questionnaire returns the compiled questionnaire for a product.
func (c *Catalog) Questionnaire(productID string) (*flow.Questionnaire, error) {
	if qn, ok := c.cache.Get(productID); ok {
		return qn, nil
	}

	p, ok := c.doc.Products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrProductNotFound, productID)
	}

	defs := slices.Concat(c.doc.General, p.Questions)

	qn, err := compile(productID, defs)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", productID, err)
	}

	c.cache.Add(productID, qn)

	return qn, nil
}

func compile(id string, defs []questionDef) (*flow.Questionnaire, error) {
	index := make(map[string]int, len(defs))
	for i, d := range defs {
		if _, ok := index[d.ID]; !ok {
			index[d.ID] = i
		}
	}

	questions := make([]flow.Question, len(defs))

	for i, d := range defs {
		q := flow.Question{
			ID:       d.ID,
			Text:     d.Text,
			Kind:     d.Kind,
			Options:  d.Options,
			Required: d.Required,
		}

		if d.Eligibility != nil && !d.Eligibility.empty() {
			q.Eligibility = d.Eligibility.eligibility()
		}

		if d.Validate != nil && !d.Validate.empty() {
			q.Validate = d.Validate.validation()
		}

		if len(d.Skip) > 0 {
			rule, err := skipRule(d.Skip, index, i)
			if err != nil {
				return nil, errors.Join(flow.ErrInvalidFlowDefinition, fmt.Errorf("question %q: %w", d.ID, err))
			}

			q.Skip = rule
		}

		questions[i] = q
	}

	qn := &flow.Questionnaire{ID: id, Questions: questions}

	if err := qn.Validate(); err != nil {
		return nil, err
	}

	return qn, nil
}
