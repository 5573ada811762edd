package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/catalog/internal/models"
)

// ProductDocument is what the product index stores.
type ProductDocument struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImgURL      string    `json:"imgUrl"`
	Date        time.Time `json:"date"`
	Categories  []string  `json:"categories"`
}

func NewProductDocument(p *models.Product) ProductDocument {
	cats := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		cats = append(cats, c.Name)
	}
	return ProductDocument{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImgURL:      p.ImgURL,
		Date:        p.Date.UTC(),
		Categories:  cats,
	}
}

type Client struct {
	ES    *elasticsearch.Client
	Index string
}

// Connect builds the client and checks the cluster answers.
func Connect(url, user, password, index string) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := es.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}

	return &Client{ES: es, Index: index}, nil
}

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "long"},
      "name":        {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "description": {"type": "text"},
      "price":       {"type": "double"},
      "imgUrl":      {"type": "keyword", "index": false},
      "date":        {"type": "date"},
      "categories":  {"type": "keyword"}
    }
  }
}`

func (c *Client) EnsureIndex(ctx context.Context) error {
	res, err := c.ES.Indices.Exists([]string{c.Index}, c.ES.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("index exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = c.ES.Indices.Create(c.Index,
		c.ES.Indices.Create.WithContext(ctx),
		c.ES.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("index create: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index create: %s: %s", res.Status(), body)
	}
	return nil
}

func (c *Client) IndexProduct(ctx context.Context, doc ProductDocument) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	res, err := c.ES.Index(c.Index, &buf,
		c.ES.Index.WithContext(ctx),
		c.ES.Index.WithDocumentID(strconv.FormatInt(doc.ID, 10)),
	)
	if err != nil {
		return fmt.Errorf("index document: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index document: %s", res.Status())
	}
	return nil
}

// DeleteProduct treats a missing document as already deleted.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	res, err := c.ES.Delete(c.Index, strconv.FormatInt(id, 10), c.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete document: %s", res.Status())
	}
	return nil
}

func queryBody(query string, from, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}
}

func (c *Client) Search(ctx context.Context, query string, from, size int) (int64, []ProductDocument, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(queryBody(query, from, size)); err != nil {
		return 0, nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := c.ES.Search(
		c.ES.Search.WithContext(ctx),
		c.ES.Search.WithIndex(c.Index),
		c.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source ProductDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	docs := make([]ProductDocument, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
