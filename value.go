package zonegen

import (
	"fmt"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Dialect selects the surface syntax of the input document.
type Dialect string

const (
	TOML Dialect = "toml"
	YAML Dialect = "yaml"
)

// The input schema is deliberately polymorphic: many fields accept a scalar,
// a list, or a table depending on context. Both dialects are therefore first
// parsed into this closed variant type and all shape decisions are made on
// it, keyed by kind rather than by runtime type inspection. Table key order
// follows the document so the output stays deterministic.
type valueKind int

const (
	stringValue valueKind = iota
	intValue
	boolValue
	listValue
	tableValue
)

func (k valueKind) String() string {
	switch k {
	case stringValue:
		return "string"
	case intValue:
		return "integer"
	case boolValue:
		return "boolean"
	case listValue:
		return "list"
	default:
		return "table"
	}
}

type value struct {
	kind  valueKind
	str   string
	num   int64
	b     bool
	list  []*value
	keys  []string // table keys in document order
	table map[string]*value

	// Best-effort source location, 0 when the dialect provides none.
	line, column int
}

// yamlTree converts a parsed YAML document into the canonical value tree,
// keeping per-node line/column information.
func yamlTree(text string) (*value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, &DecodeError{Dialect: YAML, Reason: err.Error()}
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		// Empty document, same as an empty table.
		return &value{kind: tableValue, table: map[string]*value{}}, nil
	}
	return yamlValue(root.Content[0])
}

func yamlValue(n *yaml.Node) (*value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.ScalarNode:
		v := &value{line: n.Line, column: n.Column}
		switch n.Tag {
		case "!!int":
			i, err := strconv.ParseInt(n.Value, 0, 64)
			if err != nil {
				return nil, &DecodeError{Dialect: YAML, Line: n.Line, Column: n.Column, Reason: fmt.Sprintf("invalid integer '%s'", n.Value)}
			}
			v.kind = intValue
			v.num = i
		case "!!bool":
			b, err := strconv.ParseBool(n.Value)
			if err != nil {
				return nil, &DecodeError{Dialect: YAML, Line: n.Line, Column: n.Column, Reason: fmt.Sprintf("invalid boolean '%s'", n.Value)}
			}
			v.kind = boolValue
			v.b = b
		case "!!null":
			return nil, &DecodeError{Dialect: YAML, Line: n.Line, Column: n.Column, Reason: "null is not a valid value"}
		default:
			v.kind = stringValue
			v.str = n.Value
		}
		return v, nil
	case yaml.SequenceNode:
		v := &value{kind: listValue, line: n.Line, column: n.Column}
		for _, c := range n.Content {
			cv, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			v.list = append(v.list, cv)
		}
		return v, nil
	case yaml.MappingNode:
		v := &value{kind: tableValue, table: map[string]*value{}, line: n.Line, column: n.Column}
		for i := 0; i < len(n.Content); i += 2 {
			k, c := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, &DecodeError{Dialect: YAML, Line: k.Line, Column: k.Column, Reason: "mapping key must be a scalar"}
			}
			if _, ok := v.table[k.Value]; ok {
				return nil, &DecodeError{Dialect: YAML, Line: k.Line, Column: k.Column, Reason: fmt.Sprintf("duplicate key '%s'", k.Value)}
			}
			cv, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			v.keys = append(v.keys, k.Value)
			v.table[k.Value] = cv
		}
		return v, nil
	default:
		return nil, &DecodeError{Dialect: YAML, Line: n.Line, Column: n.Column, Reason: "unsupported node type"}
	}
}

// tomlTree converts a TOML document into the canonical value tree. The TOML
// decoder hands back untyped maps with no positions and no order, so table
// key order is restored from the decoder metadata and locations stay empty.
func tomlTree(text string) (*value, error) {
	var raw map[string]interface{}
	md, err := toml.Decode(text, &raw)
	if err != nil {
		return nil, &DecodeError{Dialect: TOML, Reason: err.Error()}
	}
	order := map[string]int{}
	for i, k := range md.Keys() {
		order[keyID(k)] = i
	}
	return tomlValue(raw, nil, order)
}

// keyID builds a collision-safe identifier for a TOML key path.
func keyID(k toml.Key) string {
	id := ""
	for _, part := range k {
		id += strconv.Itoa(len(part)) + ":" + part
	}
	return id
}

func tomlValue(raw interface{}, path toml.Key, order map[string]int) (*value, error) {
	switch t := raw.(type) {
	case string:
		return &value{kind: stringValue, str: t}, nil
	case int64:
		return &value{kind: intValue, num: t}, nil
	case bool:
		return &value{kind: boolValue, b: t}, nil
	case []interface{}:
		v := &value{kind: listValue}
		for _, e := range t {
			ev, err := tomlValue(e, path, order)
			if err != nil {
				return nil, err
			}
			v.list = append(v.list, ev)
		}
		return v, nil
	case []map[string]interface{}:
		v := &value{kind: listValue}
		for _, e := range t {
			ev, err := tomlValue(e, path, order)
			if err != nil {
				return nil, err
			}
			v.list = append(v.list, ev)
		}
		return v, nil
	case map[string]interface{}:
		v := &value{kind: tableValue, table: map[string]*value{}}
		for k, e := range t {
			ev, err := tomlValue(e, append(path, k), order)
			if err != nil {
				return nil, err
			}
			v.keys = append(v.keys, k)
			v.table[k] = ev
		}
		sortTableKeys(v, path, order)
		return v, nil
	case time.Time:
		return nil, &DecodeError{Dialect: TOML, Path: path.String(), Reason: "dates are not valid values here"}
	case float64:
		return nil, &DecodeError{Dialect: TOML, Path: path.String(), Reason: "floats are not valid values here"}
	default:
		return nil, &DecodeError{Dialect: TOML, Path: path.String(), Reason: fmt.Sprintf("unsupported value of type %T", raw)}
	}
}

func sortTableKeys(v *value, path toml.Key, order map[string]int) {
	pos := func(k string) int {
		if i, ok := order[keyID(append(path, k))]; ok {
			return i
		}
		return len(order)
	}
	// Insertion sort, tables are small.
	for i := 1; i < len(v.keys); i++ {
		for j := i; j > 0 && pos(v.keys[j-1]) > pos(v.keys[j]); j-- {
			v.keys[j-1], v.keys[j] = v.keys[j], v.keys[j-1]
		}
	}
}
