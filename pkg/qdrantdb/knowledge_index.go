package qdrantdb

import (
	"context"
	"fmt"

	"github.com/abuharish02/Lead-gen-ai-backend/embedding"

	"github.com/qdrant/go-client/qdrant"
)

const KnowledgeCollectionName = "knowledge_items"

// KnowledgeIndex keeps the knowledge embedding matrix in a Qdrant collection.
// Point ids mirror the store's item indices, so search hits map straight back
// onto the in-memory item list.
type KnowledgeIndex struct {
	client *Client
}

func NewKnowledgeIndex(client *Client) *KnowledgeIndex {
	return &KnowledgeIndex{client: client}
}

// Replace recreates the collection for the given matrix. The corpus is small,
// so a drop-and-reload is cheaper than diffing point sets.
func (x *KnowledgeIndex) Replace(ctx context.Context, vectors [][]float32) error {
	c := x.client.Client

	exists, err := c.CollectionExists(ctx, KnowledgeCollectionName)
	if err != nil {
		return fmt.Errorf("err check knowledge collection: %w", err)
	}
	if exists {
		if err := c.DeleteCollection(ctx, KnowledgeCollectionName); err != nil {
			return fmt.Errorf("err drop knowledge collection: %w", err)
		}
	}

	if len(vectors) == 0 {
		return nil
	}

	err = c.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: KnowledgeCollectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(len(vectors[0])),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("err create knowledge collection: %w", err)
	}

	points := make([]*qdrant.PointStruct, len(vectors))
	for i, vec := range vectors {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(i)),
			Vectors: qdrant.NewVectorsDense(vec),
		}
	}

	_, err = c.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: KnowledgeCollectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("err upsert knowledge points: %w", err)
	}
	return nil
}

func (x *KnowledgeIndex) Search(ctx context.Context, query []float32, k int) ([]embedding.Match, error) {
	if k <= 0 {
		return nil, nil
	}

	hits, err := x.client.Client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: KnowledgeCollectionName,
		Query:          qdrant.NewQueryDense(query),
		Limit:          qdrant.PtrOf(uint64(k)),
	})
	if err != nil {
		return nil, fmt.Errorf("err query knowledge points: %w", err)
	}

	matches := make([]embedding.Match, 0, len(hits))
	for _, hit := range hits {
		matches = append(matches, embedding.Match{
			Index: int(hit.Id.GetNum()),
			Score: float64(hit.Score),
		})
	}
	return matches, nil
}
