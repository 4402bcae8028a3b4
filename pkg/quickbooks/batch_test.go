package quickbooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBatchItems(n int) []BatchItem {
	items := make([]BatchItem, n)
	for i := range items {
		items[i] = BatchItem{
			"bId":       fmt.Sprintf("b%d", i),
			"operation": "create",
			"Invoice":   Entity{"DocNumber": fmt.Sprintf("%d", i)},
		}
	}
	return items
}

func TestBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/company/12345/batch", r.URL.Path)

		var body struct {
			BatchItemRequest []BatchItem `json:"BatchItemRequest"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.BatchItemRequest, 2)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"BatchItemResponse": [
			{"bId": "b0", "Invoice": {"Id": "1"}},
			{"bId": "b1", "Fault": {"Error": [{"Message": "Duplicate", "code": "6140"}]}}
		]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	results, err := client.Batch(context.Background(), makeBatchItems(2))
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "b0", results[0]["bId"])
	// per-item faults are the caller's to inspect
	assert.Contains(t, results[1], "Fault")
}

func TestBatchRejectsOversizedRequest(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.Batch(context.Background(), makeBatchItems(MaxBatchItems+1))
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, int32(0), requests.Load())
}

func TestBatchRejectsEmptyRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.Batch(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestBatchAllChunksAndPreservesOrder(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		var body struct {
			BatchItemRequest []BatchItem `json:"BatchItemRequest"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.LessOrEqual(t, len(body.BatchItemRequest), MaxBatchItems)

		// echo each item's bId back in order
		responses := make([]Entity, len(body.BatchItemRequest))
		for i, item := range body.BatchItemRequest {
			responses[i] = Entity{"bId": item["bId"]}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"BatchItemResponse": responses})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	results, err := client.BatchAll(context.Background(), makeBatchItems(65))
	require.NoError(t, err)

	assert.Equal(t, int32(3), requests.Load(), "65 items must be sent as 3 chunks")
	require.Len(t, results, 65)
	for i, result := range results {
		assert.Equal(t, fmt.Sprintf("b%d", i), result["bId"], "results must keep submission order")
	}
}

func TestBatchAllSingleChunkDelegates(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"BatchItemResponse": [{"bId": "b0"}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.BatchAll(context.Background(), makeBatchItems(1))
	require.NoError(t, err)
	assert.Equal(t, int32(1), requests.Load())
}
