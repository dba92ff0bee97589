package shopify

import (
	"context"
	"fmt"
	"time"

	"github.com/relaykit/quoterelay/internal/records"
)

// metaobjectNode is the GraphQL shape shared by all metaobject operations.
type metaobjectNode struct {
	ID        string    `json:"id"`
	Handle    string    `json:"handle"`
	Type      string    `json:"type"`
	UpdatedAt time.Time `json:"updatedAt"`
	Fields    []struct {
		Key   string  `json:"key"`
		Value *string `json:"value"`
	} `json:"fields"`
}

const metaobjectFragment = `id handle type updatedAt fields { key value }`

func (n *metaobjectNode) record() *records.Record {
	rec := &records.Record{
		ID:        n.ID,
		Handle:    n.Handle,
		Type:      n.Type,
		Fields:    make(map[string]string, len(n.Fields)),
		UpdatedAt: n.UpdatedAt,
	}
	for _, f := range n.Fields {
		if f.Value != nil {
			rec.Fields[f.Key] = *f.Value
		}
	}
	return rec
}

func fieldInputs(fields map[string]string) []map[string]interface{} {
	inputs := make([]map[string]interface{}, 0, len(fields))
	for k, v := range fields {
		inputs = append(inputs, map[string]interface{}{"key": k, "value": v})
	}
	return inputs
}

// recordUserErrors maps mutation userErrors to the records error taxonomy.
func recordUserErrors(errs []UserError) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", records.ErrInvalidRecord, errs[0].Message)
}

// CreateRecord creates a metaobject of the given type with the given handle.
func (c *Client) CreateRecord(ctx context.Context, typeName, handle string, fields map[string]string) (*records.Record, error) {
	const query = `mutation CreateMetaobject($metaobject: MetaobjectCreateInput!) {
		metaobjectCreate(metaobject: $metaobject) {
			metaobject { ` + metaobjectFragment + ` }
			userErrors { field message code }
		}
	}`

	var out struct {
		MetaobjectCreate struct {
			Metaobject *metaobjectNode `json:"metaobject"`
			UserErrors []UserError     `json:"userErrors"`
		} `json:"metaobjectCreate"`
	}
	vars := map[string]interface{}{
		"metaobject": map[string]interface{}{
			"type":   typeName,
			"handle": handle,
			"fields": fieldInputs(fields),
		},
	}
	if err := c.execute(ctx, query, vars, &out); err != nil {
		return nil, err
	}
	if err := recordUserErrors(out.MetaobjectCreate.UserErrors); err != nil {
		return nil, err
	}
	if out.MetaobjectCreate.Metaobject == nil {
		return nil, fmt.Errorf("%w: create returned no metaobject", records.ErrInvalidRecord)
	}
	return out.MetaobjectCreate.Metaobject.record(), nil
}

// GetRecordByHandle fetches one metaobject by type and handle.
func (c *Client) GetRecordByHandle(ctx context.Context, typeName, handle string) (*records.Record, error) {
	const query = `query MetaobjectByHandle($handle: MetaobjectHandleInput!) {
		metaobjectByHandle(handle: $handle) { ` + metaobjectFragment + ` }
	}`

	var out struct {
		MetaobjectByHandle *metaobjectNode `json:"metaobjectByHandle"`
	}
	vars := map[string]interface{}{
		"handle": map[string]interface{}{"type": typeName, "handle": handle},
	}
	if err := c.execute(ctx, query, vars, &out); err != nil {
		return nil, err
	}
	if out.MetaobjectByHandle == nil {
		return nil, records.ErrNotFound
	}
	return out.MetaobjectByHandle.record(), nil
}

// ListRecords pages through metaobjects of one type, newest first.
func (c *Client) ListRecords(ctx context.Context, opts records.ListOptions) (*records.Page, error) {
	const query = `query ListMetaobjects($type: String!, $first: Int!, $after: String, $query: String) {
		metaobjects(type: $type, first: $first, after: $after, query: $query, sortKey: "updated_at", reverse: true) {
			edges { node { ` + metaobjectFragment + ` } }
			pageInfo { endCursor hasNextPage }
		}
	}`

	if opts.First <= 0 {
		opts.First = 25
	}
	vars := map[string]interface{}{
		"type":  opts.Type,
		"first": opts.First,
	}
	if opts.After != "" {
		vars["after"] = opts.After
	}
	if opts.Query != "" {
		vars["query"] = opts.Query
	}

	var out struct {
		Metaobjects struct {
			Edges []struct {
				Node metaobjectNode `json:"node"`
			} `json:"edges"`
			PageInfo struct {
				EndCursor   string `json:"endCursor"`
				HasNextPage bool   `json:"hasNextPage"`
			} `json:"pageInfo"`
		} `json:"metaobjects"`
	}
	if err := c.execute(ctx, query, vars, &out); err != nil {
		return nil, err
	}

	page := &records.Page{
		Records:     make([]records.Record, 0, len(out.Metaobjects.Edges)),
		EndCursor:   out.Metaobjects.PageInfo.EndCursor,
		HasNextPage: out.Metaobjects.PageInfo.HasNextPage,
	}
	for _, e := range out.Metaobjects.Edges {
		page.Records = append(page.Records, *e.Node.record())
	}
	return page, nil
}

// UpdateRecord replaces the given fields on an existing metaobject.
func (c *Client) UpdateRecord(ctx context.Context, id string, fields map[string]string) (*records.Record, error) {
	const query = `mutation UpdateMetaobject($id: ID!, $metaobject: MetaobjectUpdateInput!) {
		metaobjectUpdate(id: $id, metaobject: $metaobject) {
			metaobject { ` + metaobjectFragment + ` }
			userErrors { field message code }
		}
	}`

	var out struct {
		MetaobjectUpdate struct {
			Metaobject *metaobjectNode `json:"metaobject"`
			UserErrors []UserError     `json:"userErrors"`
		} `json:"metaobjectUpdate"`
	}
	vars := map[string]interface{}{
		"id":         id,
		"metaobject": map[string]interface{}{"fields": fieldInputs(fields)},
	}
	if err := c.execute(ctx, query, vars, &out); err != nil {
		return nil, err
	}
	if err := recordUserErrors(out.MetaobjectUpdate.UserErrors); err != nil {
		return nil, err
	}
	if out.MetaobjectUpdate.Metaobject == nil {
		return nil, records.ErrNotFound
	}
	return out.MetaobjectUpdate.Metaobject.record(), nil
}

// UpsertRecord creates or updates the metaobject with the given handle. Used
// for per-shop singletons like settings.
func (c *Client) UpsertRecord(ctx context.Context, typeName, handle string, fields map[string]string) (*records.Record, error) {
	const query = `mutation UpsertMetaobject($handle: MetaobjectHandleInput!, $metaobject: MetaobjectUpsertInput!) {
		metaobjectUpsert(handle: $handle, metaobject: $metaobject) {
			metaobject { ` + metaobjectFragment + ` }
			userErrors { field message code }
		}
	}`

	var out struct {
		MetaobjectUpsert struct {
			Metaobject *metaobjectNode `json:"metaobject"`
			UserErrors []UserError     `json:"userErrors"`
		} `json:"metaobjectUpsert"`
	}
	vars := map[string]interface{}{
		"handle":     map[string]interface{}{"type": typeName, "handle": handle},
		"metaobject": map[string]interface{}{"fields": fieldInputs(fields)},
	}
	if err := c.execute(ctx, query, vars, &out); err != nil {
		return nil, err
	}
	if err := recordUserErrors(out.MetaobjectUpsert.UserErrors); err != nil {
		return nil, err
	}
	if out.MetaobjectUpsert.Metaobject == nil {
		return nil, fmt.Errorf("%w: upsert returned no metaobject", records.ErrInvalidRecord)
	}
	return out.MetaobjectUpsert.Metaobject.record(), nil
}

// DeleteRecord removes a metaobject by ID.
func (c *Client) DeleteRecord(ctx context.Context, id string) error {
	const query = `mutation DeleteMetaobject($id: ID!) {
		metaobjectDelete(id: $id) {
			deletedId
			userErrors { field message code }
		}
	}`

	var out struct {
		MetaobjectDelete struct {
			DeletedID  *string     `json:"deletedId"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"metaobjectDelete"`
	}
	if err := c.execute(ctx, query, map[string]interface{}{"id": id}, &out); err != nil {
		return err
	}
	if err := recordUserErrors(out.MetaobjectDelete.UserErrors); err != nil {
		return err
	}
	if out.MetaobjectDelete.DeletedID == nil {
		return records.ErrNotFound
	}
	return nil
}
