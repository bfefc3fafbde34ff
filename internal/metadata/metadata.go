// Package metadata builds oemetadata documents for prepared tables. The
// OpenEnergyPlatform requires a JSON metadata document per uploaded table
// describing its columns and data types; the documents produced here are
// derived from the canonical table layouts so they always match the data
// written by the processing pipeline.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"b3data/internal/schema"
)

const (
	// metadataVersion is the oemetadata release the documents follow.
	metadataVersion = "OEP-1.5.2"

	defaultLanguage = "en-GB"
	defaultEncoding = "UTF-8"
	defaultProfile  = "tabular-data-resource"
	defaultFormat   = "csv"
)

var validate = validator.New()

// Document is an oemetadata description of a single table.
type Document struct {
	Name            string     `json:"name" validate:"required"`
	Title           string     `json:"title"`
	ID              string     `json:"id" validate:"required"`
	Description     string     `json:"description"`
	Language        []string   `json:"language"`
	Keywords        []string   `json:"keywords"`
	PublicationDate string     `json:"publicationDate,omitempty"`
	Resources       []Resource `json:"resources" validate:"required,min=1,dive"`
	MetaMetadata    Meta       `json:"metaMetadata"`
}

// Resource describes the file backing a table.
type Resource struct {
	Profile  string         `json:"profile"`
	Name     string         `json:"name" validate:"required"`
	Path     string         `json:"path"`
	Format   string         `json:"format"`
	Encoding string         `json:"encoding"`
	Schema   ResourceSchema `json:"schema"`
}

// ResourceSchema lists the columns of a resource.
type ResourceSchema struct {
	Fields     []Field  `json:"fields" validate:"required,min=1,dive"`
	PrimaryKey []string `json:"primaryKey"`
}

// Field describes one column.
type Field struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Type        string `json:"type" validate:"required"`
	Unit        string `json:"unit,omitempty"`
}

// Meta records the metadata format version.
type Meta struct {
	MetadataVersion string `json:"metadataVersion"`
}

// columnTypes maps canonical columns to oemetadata data types. Columns not
// listed are text.
var columnTypes = map[string]string{
	schema.ColIDScal:     "bigint",
	schema.ColIDTs:       "bigint",
	schema.ColVarValue:   "float",
	schema.ColSeries:     "float array",
	schema.ColStart:      "timestamp",
	schema.ColStop:       "timestamp",
	schema.ColResolution: "interval",
}

// columnDescriptions carries the short column descriptions used on the
// platform.
var columnDescriptions = map[string]string{
	schema.ColIDScal:     "Unique identifier",
	schema.ColIDTs:       "Unique identifier",
	schema.ColScenario:   "Scenario the value belongs to",
	schema.ColName:       "Name of the element",
	schema.ColVarName:    "Name of the variable",
	schema.ColCarrier:    "Energy carrier",
	schema.ColRegion:     "Region the value belongs to",
	schema.ColTech:       "Technology",
	schema.ColType:       "Type of the element",
	schema.ColVarValue:   "Value of the variable",
	schema.ColVarUnit:    "Unit of the variable",
	schema.ColReference:  "Reference of the value",
	schema.ColComment:    "Remarks on the value",
	schema.ColStart:      "Start of the time index",
	schema.ColStop:       "End of the time index",
	schema.ColResolution: "Resolution of the time index",
	schema.ColSeries:     "Values of the series",
	schema.ColSource:     "Source of the series",
}

// ForKind builds the metadata document for a table holding data of the given
// kind.
func ForKind(tableName string, kind schema.Kind) (*Document, error) {
	sch, err := schema.ForKind(kind)
	if err != nil {
		return nil, err
	}

	fields := make([]Field, 0, len(sch.Header))
	for _, col := range sch.Header {
		typ, ok := columnTypes[col]
		if !ok {
			typ = "text"
		}
		fields = append(fields, Field{
			Name:        col,
			Description: columnDescriptions[col],
			Type:        typ,
		})
	}

	primaryKey := []string{sch.Header[0]}

	return &Document{
		Name:        tableName,
		Title:       tableName,
		ID:          fmt.Sprintf("https://openenergyplatform.org/dataedit/view/model_draft/%s", tableName),
		Description: fmt.Sprintf("%s data in oemof-B3 format", kind),
		Language:    []string{defaultLanguage},
		Keywords:    []string{"energy", "scenario", string(kind)},
		Resources: []Resource{{
			Profile:  defaultProfile,
			Name:     tableName,
			Path:     tableName + ".csv",
			Format:   defaultFormat,
			Encoding: defaultEncoding,
			Schema: ResourceSchema{
				Fields:     fields,
				PrimaryKey: primaryKey,
			},
		}},
		MetaMetadata: Meta{MetadataVersion: metadataVersion},
	}, nil
}

// Validate checks the document for structural completeness.
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("metadata for %s is invalid: %w", d.Name, err)
	}
	return nil
}

// WriteJSON saves the document as indented JSON, creating parent directories
// as needed.
func (d *Document) WriteJSON(path string) error {
	if err := d.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// ReadJSON loads a document from disk.
func ReadJSON(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode metadata %s: %w", path, err)
	}
	return &doc, nil
}
