package shopify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoprag/internal/domain"
)

func testServer(t *testing.T, productsBody, policiesBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/products.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret-token", r.Header.Get("X-Shopify-Access-Token"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.NotEmpty(t, r.URL.Query().Get("fields"))
		w.Write([]byte(productsBody))
	})
	mux.HandleFunc("/policies.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret-token", r.Header.Get("X-Shopify-Access-Token"))
		w.Write([]byte(policiesBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchDocuments(t *testing.T) {
	srv := testServer(t,
		`{"products":[{"id":42,"title":"Urban Messenger","handle":"urban-messenger","body_html":"<p>Water resistant bag</p>"}]}`,
		`{"policies":[{"title":"Refund Policy","body":"<p>30 days</p>"}]}`)

	c := NewClient(Config{Shop: "demo.myshopify.com", AccessToken: "secret-token", BaseURL: srv.URL})
	docs, err := c.FetchDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)

	prod := docs[0]
	assert.Equal(t, domain.TypeProduct, prod.Type)
	assert.Equal(t, "42", prod.ShopID)
	assert.Equal(t, "/products/urban-messenger", prod.SourceURL)
	assert.Equal(t, "Urban Messenger", prod.Title)
	assert.Equal(t, "Water resistant bag", prod.BodyText)

	pol := docs[1]
	assert.Equal(t, domain.TypePolicy, pol.Type)
	assert.Equal(t, "demo.myshopify.com", pol.ShopID)
	assert.Equal(t, "/policies/refund-policy", pol.SourceURL)
	assert.Equal(t, "30 days", pol.BodyText)
}

func TestFetchDocuments_MissingCredentials(t *testing.T) {
	c := NewClient(Config{Shop: "demo.myshopify.com"})
	_, err := c.FetchDocuments(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingConfig)

	c = NewClient(Config{AccessToken: "secret-token"})
	_, err = c.FetchDocuments(context.Background())
	assert.ErrorIs(t, err, domain.ErrMissingConfig)
}

func TestFetchDocuments_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(Config{Shop: "demo.myshopify.com", AccessToken: "secret-token", BaseURL: srv.URL})
	_, err := c.FetchDocuments(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch products")
}

func TestPolicySlug(t *testing.T) {
	assert.Equal(t, "privacy-policy", policySlug("Privacy Policy"))
	assert.Equal(t, "terms-of-service", policySlug("Terms of Service"))
}
