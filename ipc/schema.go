package ipc

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidHello wraps every hello payload that fails validation.
var ErrInvalidHello = errors.New("invalid hello")

//go:embed schemas/hello.schema.json
var helloSchemaSrc string

const helloSchemaURL = "https://vimy.local/schemas/hello.schema.json"

var (
	helloSchemaOnce sync.Once
	helloSchema     *jsonschema.Schema
	helloSchemaErr  error
)

// DecodeHello validates raw against the hello schema and decodes it.
func DecodeHello(raw json.RawMessage) (HelloMessage, error) {
	helloSchemaOnce.Do(func() {
		helloSchema, helloSchemaErr = jsonschema.CompileString(helloSchemaURL, helloSchemaSrc)
	})
	if helloSchemaErr != nil {
		return HelloMessage{}, fmt.Errorf("compile hello schema: %w", helloSchemaErr)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return HelloMessage{}, fmt.Errorf("%w: %v", ErrInvalidHello, err)
	}
	if err := helloSchema.Validate(doc); err != nil {
		return HelloMessage{}, fmt.Errorf("%w: %v", ErrInvalidHello, err)
	}

	var hello HelloMessage
	if err := json.Unmarshal(raw, &hello); err != nil {
		return HelloMessage{}, fmt.Errorf("unmarshal hello: %w", err)
	}
	return hello, nil
}
