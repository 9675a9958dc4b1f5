package pdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castroh/pdi-agent/internal/domain"
)

func blockTexts(blocks []Block) string {
	return PlainText(blocks)
}

func profileFor(name string) domain.Profile {
	return domain.Profile{Name: name, Email: "ana@example.com"}
}

func TestSectionsHeaderUsesProfileName(t *testing.T) {
	blocks := Sections(map[string]any{}, profileFor("Ana Souza"))

	require.NotEmpty(t, blocks)
	assert.Equal(t, BlockHeader, blocks[0].Kind)
	assert.Equal(t, "PDI Agente: Diagnóstico de Carreira para Ana Souza", blocks[0].Text)
}

func TestSectionsHeaderFallbackName(t *testing.T) {
	blocks := Sections(map[string]any{}, domain.Profile{})
	assert.Contains(t, blocks[0].Text, "Usuário")
}

func TestSectionsGeneralAnalysisFallsBackToNA(t *testing.T) {
	text := blockTexts(Sections(map[string]any{}, profileFor("Ana")))
	assert.Contains(t, text, "Análise Geral da IA")
	assert.Contains(t, text, "N/A")
}

func TestSectionsErrorStringPrintedVerbatim(t *testing.T) {
	analysis := map[string]any{
		domain.FacetGeneralAnalysis: "Erro ao gerar esta seção: quota exceeded",
	}

	text := blockTexts(Sections(analysis, profileFor("Ana")))
	assert.Contains(t, text, "Erro ao gerar esta seção: quota exceeded")
}

func TestSectionsIdealCompanyObject(t *testing.T) {
	analysis := map[string]any{
		domain.FacetIdealCompany: map[string]any{
			"cultura": "colaborativa",
			"porte":   "média",
		},
	}

	text := blockTexts(Sections(analysis, profileFor("Ana")))
	assert.Contains(t, text, "Perfil de Empresa Ideal")
	assert.Contains(t, text, "Cultura: colaborativa")
	assert.Contains(t, text, "Porte: média")
}

func TestSectionsIdealCompanyString(t *testing.T) {
	analysis := map[string]any{
		domain.FacetIdealCompany: "startups de tecnologia",
	}

	text := blockTexts(Sections(analysis, profileFor("Ana")))
	assert.Contains(t, text, "startups de tecnologia")
}

func TestSectionsSmartPlanMeasurableGoals(t *testing.T) {
	analysis := map[string]any{
		domain.FacetSmartPlan: map[string]any{
			"S": "Tornar-se referência em dados",
			"M": []any{
				map[string]any{"detalhe": "Concluir certificação", "metrica": "1 certificado"},
				map[string]any{"detalhe": "Liderar um projeto"},
				"item solto",
			},
		},
	}

	text := blockTexts(Sections(analysis, profileFor("Ana")))
	assert.Contains(t, text, "Plano SMART (Próximo Ano)")
	assert.Contains(t, text, "  - S:")
	assert.Contains(t, text, "1. Concluir certificação")
	assert.Contains(t, text, "(Métrica: 1 certificado)")
	assert.Contains(t, text, "2. Liderar um projeto")
	assert.NotContains(t, text, "2. Liderar um projeto\n       (Métrica")
	assert.Contains(t, text, "3. item solto")
}

func TestSectionsSmartPlanScheduleListOfQuarters(t *testing.T) {
	analysis := map[string]any{
		domain.FacetSmartPlan: map[string]any{
			"T": map[string]any{
				"data_limite": "31/12/2026",
				"cronograma": []any{
					map[string]any{
						"Trimestre": "Q1",
						"Foco":      "Fundamentos",
						"Acoes":     []any{"Estudar SQL", "Curso de Go"},
					},
					"Q2 livre",
				},
			},
		},
	}

	text := blockTexts(Sections(analysis, profileFor("Ana")))
	assert.Contains(t, text, "Data limite: 31/12/2026")
	assert.Contains(t, text, "Q1 - Foco: Fundamentos")
	assert.Contains(t, text, "- Estudar SQL")
	assert.Contains(t, text, "- Q2 livre")
}

func TestSectionsSmartPlanScheduleKeyedQuarters(t *testing.T) {
	analysis := map[string]any{
		domain.FacetSmartPlan: map[string]any{
			"T": map[string]any{
				"Cronograma": map[string]any{
					"Q1": map[string]any{"foco": "Base", "acoes": []any{"Ler livro"}},
					"Q2": []any{"Praticar"},
				},
			},
		},
	}

	text := blockTexts(Sections(analysis, profileFor("Ana")))
	assert.Contains(t, text, "Q1 - Foco: Base")
	assert.Contains(t, text, "- Ler livro")
	assert.Contains(t, text, "Q2")
	assert.Contains(t, text, "- Praticar")
}

func TestSectionsSmartPlanGenericDict(t *testing.T) {
	analysis := map[string]any{
		domain.FacetSmartPlan: map[string]any{
			"A": map[string]any{
				"recursos_necessarios": []any{"mentoria", "tempo de estudo"},
			},
		},
	}

	text := blockTexts(Sections(analysis, profileFor("Ana")))
	assert.Contains(t, text, "* Recursos necessarios:")
	assert.Contains(t, text, "- mentoria")
}

func TestSectionsRecommendations(t *testing.T) {
	analysis := map[string]any{
		domain.FacetRecommendations: []any{
			map[string]any{"foco": "Comunicação", "recomendacao": "Apresentar mais"},
		},
	}

	text := blockTexts(Sections(analysis, profileFor("Ana")))
	assert.Contains(t, text, "Recomendações Focadas")
	assert.Contains(t, text, "- Comunicação: Apresentar mais")
}

func TestSectionsRecommendationsSkippedWhenNotAList(t *testing.T) {
	analysis := map[string]any{
		domain.FacetRecommendations: "Erro ao gerar esta seção: timeout",
	}

	text := blockTexts(Sections(analysis, profileFor("Ana")))
	assert.NotContains(t, text, "Recomendações Focadas")
}

func TestSectionsNextStepsAndSimilarRoles(t *testing.T) {
	analysis := map[string]any{
		domain.FacetNextSteps:    []any{"Atualizar currículo", "Pedir feedback"},
		domain.FacetSimilarRoles: []any{"Engenheiro de Dados"},
	}

	text := blockTexts(Sections(analysis, profileFor("Ana")))
	assert.Contains(t, text, "Próximos Passos (3 Meses)")
	assert.Contains(t, text, "- Atualizar currículo")
	assert.Contains(t, text, "Cargos Similares Sugeridos")
	assert.Contains(t, text, "- Engenheiro de Dados")
}

func TestSectionsActionPlanPerHorizon(t *testing.T) {
	analysis := map[string]any{
		domain.FacetHorizonActionMap: map[string]any{
			"1_ano":   []any{"Certificação"},
			"15_anos": []any{"Tornar-se CTO"},
			"2_anos":  []any{"horizonte desconhecido"},
		},
	}

	text := blockTexts(Sections(analysis, profileFor("Ana")))
	assert.Contains(t, text, "Plano de Ação para 1 ano")
	assert.Contains(t, text, "- Certificação")
	assert.Contains(t, text, "Plano de Ação para 15 anos")
	// Only the five fixed horizons are rendered.
	assert.NotContains(t, text, "horizonte desconhecido")

	// Fixed order: 1 ano before 15 anos.
	assert.Less(t,
		strings.Index(text, "Plano de Ação para 1 ano"),
		strings.Index(text, "Plano de Ação para 15 anos"))
}

func TestSectionsNumbersRenderedWithoutExponent(t *testing.T) {
	analysis := map[string]any{
		domain.FacetNextSteps: []any{float64(3), 2.5},
	}

	text := blockTexts(Sections(analysis, profileFor("Ana")))
	assert.Contains(t, text, "- 3")
	assert.Contains(t, text, "- 2.5")
}
