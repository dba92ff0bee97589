package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/relaykit/quoterelay/internal/records"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	f := NewFactory("2024-10", 5*time.Second)
	f.baseURL = srv.URL
	return f.NewClient("test.myshopify.com", "shpat_test_token")
}

func respond(t *testing.T, w http.ResponseWriter, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(body)); err != nil {
		t.Fatalf("writing response: %v", err)
	}
}

func TestCreateRecordSendsAuthorizedGraphQLRequest(t *testing.T) {
	var gotPath, gotToken string
	var gotReq graphQLRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-Shopify-Access-Token")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		respond(t, w, `{"data":{"metaobjectCreate":{"metaobject":{
			"id":"gid://shopify/Metaobject/1","handle":"quote-abc","type":"$app:quote_submission",
			"updatedAt":"2025-03-01T12:00:00Z",
			"fields":[{"key":"customer_name","value":"Jane Doe"},{"key":"quantity","value":null}]
		},"userErrors":[]}}}`)
	})

	rec, err := c.CreateRecord(context.Background(), "$app:quote_submission", "quote-abc", map[string]string{
		"customer_name": "Jane Doe",
	})
	if err != nil {
		t.Fatalf("CreateRecord returned error: %v", err)
	}

	if gotPath != "/admin/api/2024-10/graphql.json" {
		t.Fatalf("unexpected request path: %s", gotPath)
	}
	if gotToken != "shpat_test_token" {
		t.Fatalf("unexpected access token header: %s", gotToken)
	}
	if !strings.Contains(gotReq.Query, "metaobjectCreate") {
		t.Fatalf("unexpected query: %s", gotReq.Query)
	}

	if rec.ID != "gid://shopify/Metaobject/1" || rec.Handle != "quote-abc" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Fields["customer_name"] != "Jane Doe" {
		t.Fatalf("fields not decoded: %+v", rec.Fields)
	}
	if _, ok := rec.Fields["quantity"]; ok {
		t.Fatal("null field values must be dropped")
	}
}

func TestCreateRecordMapsUserErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		respond(t, w, `{"data":{"metaobjectCreate":{"metaobject":null,
			"userErrors":[{"field":["fields"],"message":"Value is invalid","code":"INVALID"}]}}}`)
	})

	_, err := c.CreateRecord(context.Background(), "$app:quote_submission", "quote-abc", nil)
	if !errors.Is(err, records.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
	if !strings.Contains(err.Error(), "Value is invalid") {
		t.Fatalf("user error message lost: %v", err)
	}
}

func TestGetRecordByHandleNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		respond(t, w, `{"data":{"metaobjectByHandle":null}}`)
	})

	_, err := c.GetRecordByHandle(context.Background(), "$app:quote_settings", "app-settings")
	if !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListRecordsDecodesPage(t *testing.T) {
	var gotReq graphQLRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		respond(t, w, `{"data":{"metaobjects":{
			"edges":[
				{"node":{"id":"gid://1","handle":"quote-a","type":"$app:quote_submission","updatedAt":"2025-03-01T12:00:00Z","fields":[]}},
				{"node":{"id":"gid://2","handle":"quote-b","type":"$app:quote_submission","updatedAt":"2025-03-01T11:00:00Z","fields":[]}}
			],
			"pageInfo":{"endCursor":"cursor-2","hasNextPage":true}
		}}}`)
	})

	page, err := c.ListRecords(context.Background(), records.ListOptions{
		Type:  "$app:quote_submission",
		Query: "status:pending",
		First: 2,
	})
	if err != nil {
		t.Fatalf("ListRecords returned error: %v", err)
	}
	if len(page.Records) != 2 || page.EndCursor != "cursor-2" || !page.HasNextPage {
		t.Fatalf("unexpected page: %+v", page)
	}
	if gotReq.Variables["query"] != "status:pending" {
		t.Fatalf("status filter not forwarded: %v", gotReq.Variables)
	}
}

func TestDeleteRecordNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		respond(t, w, `{"data":{"metaobjectDelete":{"deletedId":null,"userErrors":[]}}}`)
	})

	err := c.DeleteRecord(context.Background(), "gid://shopify/Metaobject/404")
	if !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGraphQLErrorsSurface(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		respond(t, w, `{"errors":[{"message":"Field 'metaobjects' doesn't exist"}]}`)
	})

	_, err := c.ListRecords(context.Background(), records.ListOptions{Type: "$app:quote_submission"})
	if err == nil || !strings.Contains(err.Error(), "doesn't exist") {
		t.Fatalf("expected graphql error to surface, got %v", err)
	}
}

func TestNon2xxStatusIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.GetRecordByHandle(context.Background(), "$app:quote_settings", "app-settings")
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestMetaobjectDefinitionExists(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		respond(t, w, `{"data":{"metaobjectDefinitionByType":{"id":"gid://shopify/MetaobjectDefinition/1"}}}`)
	})

	exists, err := c.MetaobjectDefinitionExists(context.Background(), "$app:quote_submission")
	if err != nil {
		t.Fatalf("MetaobjectDefinitionExists returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected the definition to be reported as existing")
	}
}

func TestMetaobjectDefinitionExistsFalseOnNull(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		respond(t, w, `{"data":{"metaobjectDefinitionByType":null}}`)
	})

	exists, err := c.MetaobjectDefinitionExists(context.Background(), "$app:quote_submission")
	if err != nil {
		t.Fatalf("MetaobjectDefinitionExists returned error: %v", err)
	}
	if exists {
		t.Fatal("expected the definition to be reported as absent")
	}
}

func TestCreateMetaobjectDefinitionTakenRace(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		respond(t, w, `{"data":{"metaobjectDefinitionCreate":{"metaobjectDefinition":null,
			"userErrors":[{"field":["definition","type"],"message":"Type has already been taken","code":"TAKEN"}]}}}`)
	})

	err := c.CreateMetaobjectDefinition(context.Background(), records.MetaobjectDefinition{
		Type: "$app:quote_submission",
		Name: "Quote Submission",
	})
	if !errors.Is(err, records.ErrDefinitionTaken) {
		t.Fatalf("expected ErrDefinitionTaken, got %v", err)
	}
}

func TestCreateMetafieldDefinitionEncodesOwnerType(t *testing.T) {
	var gotReq graphQLRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		respond(t, w, `{"data":{"metafieldDefinitionCreate":{"createdDefinition":{"id":"gid://1"},"userErrors":[]}}}`)
	})

	err := c.CreateMetafieldDefinition(context.Background(), records.MetafieldDefinition{
		Namespace:  "$app:quoterelay",
		Key:        "rfq_enabled",
		Name:       "Request a Quote enabled",
		Type:       "boolean",
		OwnerType:  "PRODUCT",
		PublicRead: true,
	})
	if err != nil {
		t.Fatalf("CreateMetafieldDefinition returned error: %v", err)
	}

	def, _ := gotReq.Variables["definition"].(map[string]interface{})
	if def["ownerType"] != "PRODUCT" {
		t.Fatalf("owner type not encoded: %v", def)
	}
	access, _ := def["access"].(map[string]interface{})
	if access["storefront"] != "PUBLIC_READ" {
		t.Fatalf("storefront access not encoded: %v", def)
	}
}
