package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/relaykit/quoterelay/internal/records"
)

// definitionUserErrors maps definition-create userErrors. A TAKEN code means
// another caller created the definition first, which the provisioner treats
// as success.
func definitionUserErrors(errs []UserError) error {
	if len(errs) == 0 {
		return nil
	}
	for _, e := range errs {
		if strings.EqualFold(e.Code, "TAKEN") {
			return records.ErrDefinitionTaken
		}
	}
	return fmt.Errorf("definition rejected: %s", errs[0].Message)
}

// MetaobjectDefinitionExists reports whether a metaobject type is already
// registered for this shop.
func (c *Client) MetaobjectDefinitionExists(ctx context.Context, typeName string) (bool, error) {
	const query = `query MetaobjectDefinitionByType($type: String!) {
		metaobjectDefinitionByType(type: $type) { id }
	}`

	var out struct {
		MetaobjectDefinitionByType *struct {
			ID string `json:"id"`
		} `json:"metaobjectDefinitionByType"`
	}
	if err := c.execute(ctx, query, map[string]interface{}{"type": typeName}, &out); err != nil {
		return false, err
	}
	return out.MetaobjectDefinitionByType != nil, nil
}

// CreateMetaobjectDefinition registers a metaobject type with its field
// schema. Returns records.ErrDefinitionTaken on a lost creation race.
func (c *Client) CreateMetaobjectDefinition(ctx context.Context, def records.MetaobjectDefinition) error {
	const query = `mutation CreateMetaobjectDefinition($definition: MetaobjectDefinitionCreateInput!) {
		metaobjectDefinitionCreate(definition: $definition) {
			metaobjectDefinition { id }
			userErrors { field message code }
		}
	}`

	fieldDefs := make([]map[string]interface{}, 0, len(def.Fields))
	for _, f := range def.Fields {
		fd := map[string]interface{}{
			"key":      f.Key,
			"name":     f.Name,
			"type":     f.Type,
			"required": f.Required,
		}
		if len(f.Choices) > 0 {
			choices, err := json.Marshal(f.Choices)
			if err != nil {
				return fmt.Errorf("encoding choices for %s: %w", f.Key, err)
			}
			fd["validations"] = []map[string]interface{}{
				{"name": "choices", "value": string(choices)},
			}
		}
		fieldDefs = append(fieldDefs, fd)
	}

	storefront := "NONE"
	if def.PublicRead {
		storefront = "PUBLIC_READ"
	}
	vars := map[string]interface{}{
		"definition": map[string]interface{}{
			"type":             def.Type,
			"name":             def.Name,
			"access":           map[string]interface{}{"storefront": storefront},
			"fieldDefinitions": fieldDefs,
		},
	}

	var out struct {
		MetaobjectDefinitionCreate struct {
			MetaobjectDefinition *struct {
				ID string `json:"id"`
			} `json:"metaobjectDefinition"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"metaobjectDefinitionCreate"`
	}
	if err := c.execute(ctx, query, vars, &out); err != nil {
		return err
	}
	return definitionUserErrors(out.MetaobjectDefinitionCreate.UserErrors)
}

// MetafieldDefinitionExists reports whether the namespaced key is already
// defined for the given owner type.
func (c *Client) MetafieldDefinitionExists(ctx context.Context, namespace, key, ownerType string) (bool, error) {
	const query = `query MetafieldDefinitions($namespace: String!, $key: String!, $ownerType: MetafieldOwnerType!) {
		metafieldDefinitions(first: 1, namespace: $namespace, key: $key, ownerType: $ownerType) {
			edges { node { id } }
		}
	}`

	var out struct {
		MetafieldDefinitions struct {
			Edges []struct {
				Node struct {
					ID string `json:"id"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"metafieldDefinitions"`
	}
	vars := map[string]interface{}{
		"namespace": namespace,
		"key":       key,
		"ownerType": ownerType,
	}
	if err := c.execute(ctx, query, vars, &out); err != nil {
		return false, err
	}
	return len(out.MetafieldDefinitions.Edges) > 0, nil
}

// CreateMetafieldDefinition registers a metafield definition. Returns
// records.ErrDefinitionTaken on a lost creation race.
func (c *Client) CreateMetafieldDefinition(ctx context.Context, def records.MetafieldDefinition) error {
	const query = `mutation CreateMetafieldDefinition($definition: MetafieldDefinitionInput!) {
		metafieldDefinitionCreate(definition: $definition) {
			createdDefinition { id }
			userErrors { field message code }
		}
	}`

	definition := map[string]interface{}{
		"namespace": def.Namespace,
		"key":       def.Key,
		"name":      def.Name,
		"type":      def.Type,
		"ownerType": def.OwnerType,
	}
	if def.PublicRead {
		definition["access"] = map[string]interface{}{"storefront": "PUBLIC_READ"}
	}

	var out struct {
		MetafieldDefinitionCreate struct {
			CreatedDefinition *struct {
				ID string `json:"id"`
			} `json:"createdDefinition"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"metafieldDefinitionCreate"`
	}
	if err := c.execute(ctx, query, map[string]interface{}{"definition": definition}, &out); err != nil {
		return err
	}
	return definitionUserErrors(out.MetafieldDefinitionCreate.UserErrors)
}
