package genai

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/castroh/pdi-agent/internal/domain"
)

// FacetPrompt pairs one facet key with the instruction that produces it.
type FacetPrompt struct {
	Key    string
	Label  string
	Prompt string
}

// BuildFacetPrompts returns the seven facet prompts in production order,
// built from the current profile and plan. Prompt wording stays in
// Portuguese, matching the product language and the stored facet keys.
func BuildFacetPrompts(profile domain.Profile, plan domain.CareerPlan, now time.Time) []FacetPrompt {
	profileJSON := mustJSON(profile)
	planJSON := mustJSON(plan)

	return []FacetPrompt{
		{
			Key:   domain.FacetGeneralAnalysis,
			Label: "Gerando Análise Geral",
			Prompt: fmt.Sprintf(`Baseado no perfil e plano de carreira abaixo, escreva uma análise geral concisa (3-4 frases) sobre a coerência, ambição e realismo do plano.
PERFIL: %s
PLANO: %s
Responda APENAS com um objeto JSON com a chave "analise_geral".`, profileJSON, planJSON),
		},
		{
			Key:   domain.FacetIdealCompany,
			Label: "Definindo Perfil de Empresa Ideal",
			Prompt: fmt.Sprintf(`Com base no objetivo final de '%s' e no perfil abaixo, descreva o tipo de empresa (cultura, setor, tamanho) onde este profissional teria mais chances de prosperar.
PERFIL: %s
Responda APENAS com um objeto JSON com a chave "tipo_empresa_ideal" contendo as chaves "cultura", "setor" e "tamanho".`, plan.FinalObjective, profileJSON),
		},
		{
			Key:   domain.FacetSimilarRoles,
			Label: "Sugerindo Cargos Similares",
			Prompt: fmt.Sprintf(`Analisando o perfil e o objetivo de '%s', sugira uma lista de 2 a 3 títulos de cargos alternativos ou complementares.
PERFIL: %s
Responda APENAS com um objeto JSON com a chave "sugestao_cargos_similares" contendo uma lista de strings.`, plan.FinalObjective, profileJSON),
		},
		{
			Key:    domain.FacetSmartPlan,
			Label:  "Criando seu Plano SMART",
			Prompt: smartPlanPrompt(profileJSON, plan, now),
		},
		{
			Key:   domain.FacetNextSteps,
			Label: "Listando Próximos Passos",
			Prompt: fmt.Sprintf(`Com base no plano de carreira, liste de 3 a 5 ações práticas e imediatas que este profissional deve tomar nos próximos 3 meses.
PLANO: %s
Responda APENAS com um objeto JSON com a chave "proximos_passos" contendo uma lista de strings.`, planJSON),
		},
		{
			Key:   domain.FacetRecommendations,
			Label: "Gerando Recomendações Focadas",
			Prompt: fmt.Sprintf(`Com base nos 'Pontos a Melhorar' (%s) e no objetivo de carreira, forneça 2 ou 3 recomendações diretas sobre como o profissional pode trabalhar nesses pontos para acelerar seus objetivos.
Responda APENAS com um objeto JSON com a chave "recomendacoes_focadas" contendo uma lista de dicionários (com chaves "foco" e "recomendacao").`, mustJSON(profile.ImprovementAreas)),
		},
		{
			Key:   domain.FacetHorizonActionMap,
			Label: "Construindo Plano de Ação Detalhado",
			Prompt: fmt.Sprintf(`Para cada período do plano de carreira abaixo, crie uma lista de 3 a 5 ações/marcos concretos que o profissional deve alcançar para se manter na trilha certa.
PLANO: %s
Responda APENAS com um objeto JSON com a chave "plano_de_acao_ia" contendo as chaves "1_ano", "3_anos", "5_anos", "10_anos", "15_anos", cada uma com uma lista de strings.`, planJSON),
		},
	}
}

func smartPlanPrompt(profileJSON string, plan domain.CareerPlan, now time.Time) string {
	today := now.Format("02/01/2006")
	targetDate := now.AddDate(1, 0, 0).Format("02/01/2006")
	oneYearGoal := mustJSON(plan.TemporalGoals["1_ano"])

	return fmt.Sprintf(`A data de hoje é %s. Crie um plano de ação SMART detalhado para a meta de 1 ano: '%s'.
Responda APENAS com um objeto JSON com a chave "plano_smart_1_ano" contendo as chaves "S", "M", "A", "R", "T".
Para "S" e "R", gere um texto simples.
Para "M", gere uma lista de dicionários, cada um com as chaves "metrica" e "detalhe".
Para "A", gere um dicionário com as chaves "Acoes_Especificas" e "Recursos_Necessarios", ambas contendo listas de strings.
Para "T", gere um dicionário com as chaves "cronograma" (uma lista de dicionários, cada um com "trimestre", "foco" e "acoes" [lista de strings]) e "data_limite" (com o valor **%s**).
PERFIL: %s`, today, oneYearGoal, targetDate, profileJSON)
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
