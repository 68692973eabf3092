package fashion

import (
	"fmt"

	"github.com/fashionpod/fashionpod/internal/types"
	"github.com/go-viper/mapstructure/v2"
)

func productPayload(p types.Product) (map[string]any, error) {
	payload := map[string]any{}
	if err := mapstructure.Decode(p, &payload); err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return payload, nil
}

// productFromPayload decodes a stored payload. The point id wins when the
// payload has none.
func productFromPayload(id string, payload map[string]any) (types.Product, error) {
	var p types.Product
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		Result:           &p,
	})
	if err != nil {
		return p, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(payload); err != nil {
		return p, fmt.Errorf("failed to decode payload of %s: %w", id, err)
	}
	if p.ID == "" {
		p.ID = id
	}
	return p, nil
}
