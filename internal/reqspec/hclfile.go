package reqspec

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// reqFileSchema describes the top level of a kraken.hcl requirements file.
var reqFileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "requirements"},
	},
}

var reqBlockSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "packages"},
		{Name: "index_url"},
		{Name: "extra_index_urls"},
		{Name: "search_path"},
	},
}

// ParseHCLFile reads a dedicated requirements file. The file carries the
// same information as the script's comment header in a single block:
//
//	requirements {
//	  packages         = ["pkg-a==1.0"]
//	  index_url        = "https://pkg.example.com/simple"
//	  extra_index_urls = []
//	  search_path      = ["build-support"]
//	}
//
// HCL diagnostics surface as MalformedError.
func ParseHCLFile(path string) (*Spec, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, &MalformedError{Source: path, Msg: diags.Error()}
	}
	return decodeRequirementsBody(path, file.Body)
}

func decodeRequirementsBody(source string, body hcl.Body) (*Spec, error) {
	content, diags := body.Content(reqFileSchema)
	if diags.HasErrors() {
		return nil, &MalformedError{Source: source, Msg: diags.Error()}
	}

	spec := &Spec{}
	for _, block := range content.Blocks {
		blockContent, diags := block.Body.Content(reqBlockSchema)
		if diags.HasErrors() {
			return nil, &MalformedError{Source: source, Msg: diags.Error()}
		}
		for name, attr := range blockContent.Attributes {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, &MalformedError{Source: source, Line: attr.Range.Start.Line, Msg: diags.Error()}
			}
			if err := spec.applyHCLAttribute(source, name, attr, val); err != nil {
				return nil, err
			}
		}
	}
	return spec, nil
}

func (s *Spec) applyHCLAttribute(source, name string, attr *hcl.Attribute, val cty.Value) error {
	line := attr.Range.Start.Line
	switch name {
	case "index_url":
		if val.Type() != cty.String {
			return &MalformedError{Source: source, Line: line, Msg: "index_url must be a string"}
		}
		s.IndexURL = val.AsString()
	case "packages", "extra_index_urls", "search_path":
		items, err := ctyStringSlice(val)
		if err != nil {
			return &MalformedError{Source: source, Line: line, Msg: fmt.Sprintf("%s must be a list of strings", name)}
		}
		switch name {
		case "packages":
			s.Requirements = append(s.Requirements, items...)
		case "extra_index_urls":
			s.ExtraIndexURLs = append(s.ExtraIndexURLs, items...)
		case "search_path":
			s.SearchPaths = append(s.SearchPaths, items...)
		}
	}
	return nil
}

func ctyStringSlice(val cty.Value) ([]string, error) {
	if val.IsNull() || !val.CanIterateElements() {
		return nil, fmt.Errorf("not a list")
	}
	var out []string
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.Type() != cty.String {
			return nil, fmt.Errorf("element is %s, not string", elem.Type().FriendlyName())
		}
		out = append(out, elem.AsString())
	}
	return out, nil
}
