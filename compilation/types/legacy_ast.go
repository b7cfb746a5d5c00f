package types

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// jsonField describes a single member of a JSON object, with its value left encoded.
type jsonField struct {
	key   string
	value json.RawMessage
}

// decodeObjectFields decodes the members of a JSON object in the order they appear. Returns false if data is not an
// object.
func decodeObjectFields(data []byte) ([]jsonField, bool, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	token, err := decoder.Token()
	if err != nil {
		return nil, false, errors.WithStack(err)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, false, nil
	}

	fields := make([]jsonField, 0)
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return nil, false, errors.WithStack(err)
		}
		key, _ := keyToken.(string)

		var value json.RawMessage
		if err = decoder.Decode(&value); err != nil {
			return nil, false, errors.WithStack(err)
		}
		fields = append(fields, jsonField{key: key, value: value})
	}
	return fields, true, nil
}

// isASTNode returns whether data is an object carrying a `nodeType` member.
func isASTNode(data json.RawMessage) bool {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return false
	}
	var node struct {
		NodeType *string `json:"nodeType"`
	}
	return json.Unmarshal(data, &node) == nil && node.NodeType != nil
}

// isEmptyArray returns whether data is a JSON array without elements.
func isEmptyArray(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return false
	}
	var elements []json.RawMessage
	return json.Unmarshal(trimmed, &elements) == nil && len(elements) == 0
}

// nodeChildren returns the AST nodes held by value, if value is a node or an array containing nodes. Null array
// elements are skipped.
func nodeChildren(value json.RawMessage) ([]json.RawMessage, bool) {
	if isASTNode(value) {
		return []json.RawMessage{value}, true
	}

	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return nil, false
	}

	children := make([]json.RawMessage, 0, len(elements))
	for _, element := range elements {
		if isASTNode(element) {
			children = append(children, element)
		}
	}
	if len(children) == 0 {
		return nil, false
	}
	return children, true
}

// ConvertToLegacyAST converts a syntax tree in the compact format, where every node is an object with a `nodeType`
// member, to the legacy format, where every node is `{"attributes": {...}, "children": [...], "id": ..., "name":
// <nodeType>, "src": ...}`. Members holding nodes become children, in member order. Empty arrays are dropped. Every
// other member except `id`, `nodeType` and `src` becomes an attribute, also in member order.
func ConvertToLegacyAST(compact json.RawMessage) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := writeLegacyNode(&buf, compact); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeLegacyNode writes the legacy form of the compact node in data to buf.
func writeLegacyNode(buf *bytes.Buffer, data json.RawMessage) error {
	fields, isObject, err := decodeObjectFields(data)
	if err != nil {
		return err
	}
	if !isObject {
		return errors.Errorf("syntax tree node is not an object")
	}

	var id, nodeType, src json.RawMessage
	attributes := make([]jsonField, 0, len(fields))
	children := make([]json.RawMessage, 0)
	for _, field := range fields {
		switch field.key {
		case "id":
			id = field.value
		case "nodeType":
			nodeType = field.value
		case "src":
			src = field.value
		default:
			if nodes, ok := nodeChildren(field.value); ok {
				children = append(children, nodes...)
			} else if !isEmptyArray(field.value) {
				attributes = append(attributes, field)
			}
		}
	}
	if nodeType == nil {
		return errors.Errorf("syntax tree node has no node type")
	}

	buf.WriteString(`{"attributes":{`)
	for i, attribute := range attributes {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err = writeKey(buf, attribute.key); err != nil {
			return err
		}
		buf.Write(bytes.TrimSpace(attribute.value))
	}
	buf.WriteByte('}')

	if len(children) > 0 {
		buf.WriteString(`,"children":[`)
		for i, child := range children {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err = writeLegacyNode(buf, child); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	}

	if id != nil {
		buf.WriteString(`,"id":`)
		buf.Write(bytes.TrimSpace(id))
	}
	buf.WriteString(`,"name":`)
	buf.Write(bytes.TrimSpace(nodeType))
	if src != nil {
		buf.WriteString(`,"src":`)
		buf.Write(bytes.TrimSpace(src))
	}
	buf.WriteByte('}')
	return nil
}

// writeKey writes a JSON object key followed by a colon.
func writeKey(buf *bytes.Buffer, key string) error {
	encodedKey, err := json.Marshal(key)
	if err != nil {
		return errors.WithStack(err)
	}
	buf.Write(encodedKey)
	buf.WriteByte(':')
	return nil
}

// PrettyJSON re-indents a JSON document with two spaces while keeping member order and string escapes unchanged.
func PrettyJSON(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, errors.WithStack(err)
	}
	return buf.Bytes(), nil
}
