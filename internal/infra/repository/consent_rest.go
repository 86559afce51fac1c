package repository

import (
	"context"
	"fmt"
	"strings"

	"consentform/internal/domain/model"
	repo "consentform/internal/repository"

	"github.com/supabase-community/postgrest-go"
)

const (
	// Supabaseの PostgREST エンドポイント
	restPath = "/rest/v1"
	schema   = "public"
)

type consentRestRepository struct {
	client *postgrest.Client
}

// DI。anon key は apikey と Bearer の両方に載せる
func NewConsentRestRepository(baseURL string, apiKey string) (repo.ConsentRepository, error) {
	client := postgrest.NewClient(strings.TrimRight(baseURL, "/")+restPath, schema, map[string]string{
		"apikey":        apiKey,
		"Authorization": "Bearer " + apiKey,
	})
	if client.ClientError != nil {
		return nil, fmt.Errorf("postgrest client: %w", client.ClientError)
	}
	return &consentRestRepository{client: client}, nil
}

// 同意を1件追加（配列で1行だけ送る、返却なし）
func (r *consentRestRepository) Insert(ctx context.Context, consent model.Consent) error {
	_, _, err := r.client.
		From(consent.TableName()).
		Insert([]model.Consent{consent}, false, "", "minimal", "").
		ExecuteWithContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", repo.ErrInsertFailed, err)
	}
	return nil
}
