package recipe

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"recipe-catalog/internal/core/catalog"
	"recipe-catalog/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// remoteTimeout 下載遠端資料的逾時
const remoteTimeout = 30 * time.Second

// LoadRecipes 讀取食譜 JSON 陣列。source 可以是檔案路徑或 http(s) URL。
func LoadRecipes(ctx context.Context, source string) ([]catalog.Recipe, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: empty catalog source", catalog.ErrInvalidArgument)
	}

	var (
		data []byte
		err  error
	)
	if isRemote(source) {
		data, err = fetchRemote(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", source, err)
	}

	recipes, err := DecodeRecipes(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", source, err)
	}

	common.LogDebug("catalog source read", zap.String("source", source), zap.Int("records", len(recipes)))
	return recipes, nil
}

// DecodeRecipes 解析食譜 JSON 陣列，沒有 ID 的紀錄會補上 UUID
func DecodeRecipes(data []byte) ([]catalog.Recipe, error) {
	var recipes []catalog.Recipe
	if err := common.ParseJSONBytes(data, &recipes); err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrParse, err)
	}

	for i := range recipes {
		if strings.TrimSpace(recipes[i].ID) == "" {
			recipes[i].ID = uuid.NewString()
			common.LogWarn("recipe without id, generated one",
				zap.String("name", recipes[i].Name),
				zap.String("id", recipes[i].ID),
			)
		}
	}
	return recipes, nil
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func fetchRemote(ctx context.Context, url string) ([]byte, error) {
	client := resty.New().
		SetTimeout(remoteTimeout).
		SetHeader("Accept", "application/json")

	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}
