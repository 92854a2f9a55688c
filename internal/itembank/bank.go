package itembank

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Bank is an ordered, validated collection of item templates.
type Bank struct {
	Items []*ItemTemplate
}

// bankFile is the on-disk shape of an item bank.
type bankFile struct {
	Items []ItemTemplate `json:"items"`
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// LoadFile reads, schema-validates, and constructs an item bank from a JSON
// file. Every item passes the same constructor validation as programmatic
// construction, so a loaded bank is indistinguishable from a built one.
func LoadFile(path string) (*Bank, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read item bank: %w", err)
	}
	return Load(raw)
}

// Load parses and validates raw item bank JSON.
func Load(raw []byte) (*Bank, error) {
	if err := validateAgainstSchema(raw); err != nil {
		return nil, err
	}

	var file bankFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse item bank: %w", err)
	}

	bank := &Bank{}
	seen := make(map[string]bool, len(file.Items))
	for i, entry := range file.Items {
		item, err := New(entry)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if seen[item.ID] {
			return nil, fmt.Errorf("item %d: duplicate item id %q", i, item.ID)
		}
		seen[item.ID] = true
		bank.Items = append(bank.Items, item)
	}
	return bank, nil
}

// validateAgainstSchema checks the raw JSON against BankSchema.
func validateAgainstSchema(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := getCompiledSchema()
	if err != nil {
		return fmt.Errorf("compile bank schema: %w", err)
	}

	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("item bank schema validation failed: %w", err)
	}
	return nil
}

// getCompiledSchema compiles BankSchema once and caches the result.
func getCompiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value, not raw
		// bytes. Marshal then unmarshal to get a clean representation.
		defBytes, err := json.Marshal(BankSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://item-bank.json"
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// ByID returns the item with the given ID, or nil.
func (b *Bank) ByID(id string) *ItemTemplate {
	for _, item := range b.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// FilterByTopic returns the items whose topic matches (case-insensitive).
// An empty topic returns all items.
func (b *Bank) FilterByTopic(topic string) []*ItemTemplate {
	if strings.TrimSpace(topic) == "" {
		return b.Items
	}
	var matched []*ItemTemplate
	for _, item := range b.Items {
		if strings.EqualFold(item.Topic, topic) {
			matched = append(matched, item)
		}
	}
	return matched
}

// Topics returns the distinct topics in bank order.
func (b *Bank) Topics() []string {
	var topics []string
	seen := make(map[string]bool)
	for _, item := range b.Items {
		if item.Topic == "" || seen[item.Topic] {
			continue
		}
		seen[item.Topic] = true
		topics = append(topics, item.Topic)
	}
	return topics
}

// Len returns the number of items in the bank.
func (b *Bank) Len() int {
	return len(b.Items)
}
