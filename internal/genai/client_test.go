package genai_test

import (
	"strings"
	"testing"
	"time"

	"github.com/castroh/pdi-agent/internal/domain"
	"github.com/castroh/pdi-agent/internal/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONValue(t *testing.T) {
	t.Run("plain JSON object", func(t *testing.T) {
		v, err := genai.ExtractJSONValue(`{"analise_geral": "Plano coerente."}`, "analise_geral")
		require.NoError(t, err)
		assert.Equal(t, "Plano coerente.", v)
	})

	t.Run("fenced JSON", func(t *testing.T) {
		raw := "```json\n{\"proximos_passos\": [\"a\", \"b\"]}\n```"
		v, err := genai.ExtractJSONValue(raw, "proximos_passos")
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b"}, v)
	})

	t.Run("fenced without language tag", func(t *testing.T) {
		raw := "  ```\n{\"tipo_empresa_ideal\": {\"cultura\": \"aberta\"}}\n```  "
		v, err := genai.ExtractJSONValue(raw, "tipo_empresa_ideal")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"cultura": "aberta"}, v)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := genai.ExtractJSONValue(`{"outra_chave": 1}`, "analise_geral")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing key")
	})

	t.Run("non-JSON response", func(t *testing.T) {
		_, err := genai.ExtractJSONValue("Desculpe, não posso ajudar com isso.", "analise_geral")
		require.Error(t, err)
	})

	t.Run("nested structured value", func(t *testing.T) {
		raw := `{"plano_smart_1_ano": {"S": "texto", "M": [{"detalhe": "d", "metrica": "m"}]}}`
		v, err := genai.ExtractJSONValue(raw, "plano_smart_1_ano")
		require.NoError(t, err)
		m, ok := v.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "texto", m["S"])
	})
}

func TestBuildFacetPrompts(t *testing.T) {
	profile := domain.Profile{
		Name:             "Ana",
		Email:            "ana@example.com",
		ImprovementAreas: []string{"inglês"},
	}
	plan := domain.CareerPlan{
		FinalObjective: "CTO",
		TemporalGoals: map[string]domain.HorizonGoal{
			"1_ano": {TargetRole: "Tech Lead", MainFocus: "arquitetura"},
		},
	}

	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	prompts := genai.BuildFacetPrompts(profile, plan, now)

	require.Len(t, prompts, len(domain.FacetKeys))
	for i, p := range prompts {
		assert.Equal(t, domain.FacetKeys[i], p.Key, "facet order must be fixed")
		assert.Contains(t, p.Prompt, `"`+p.Key+`"`, "prompt must name its response key")
		assert.NotEmpty(t, p.Label)
	}

	t.Run("smart prompt carries dates", func(t *testing.T) {
		var smart genai.FacetPrompt
		for _, p := range prompts {
			if p.Key == domain.FacetSmartPlan {
				smart = p
			}
		}
		assert.Contains(t, smart.Prompt, "15/03/2026")
		assert.Contains(t, smart.Prompt, "15/03/2027")
		assert.Contains(t, smart.Prompt, "Tech Lead")
	})

	t.Run("recommendations prompt carries improvement areas", func(t *testing.T) {
		var rec genai.FacetPrompt
		for _, p := range prompts {
			if p.Key == domain.FacetRecommendations {
				rec = p
			}
		}
		assert.True(t, strings.Contains(rec.Prompt, "inglês"))
	})
}
