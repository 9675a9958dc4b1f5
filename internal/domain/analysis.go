package domain

// Facet keys of the AI diagnostic, in the order the orchestrator produces
// them. The values stored under these keys are untrusted model output: each
// may be missing, an error string, or an object whose key casing drifts
// between runs. Consumers must tolerate all three shapes.
const (
	FacetGeneralAnalysis  = "analise_geral"
	FacetIdealCompany     = "tipo_empresa_ideal"
	FacetSimilarRoles     = "sugestao_cargos_similares"
	FacetSmartPlan        = "plano_smart_1_ano"
	FacetNextSteps        = "proximos_passos"
	FacetRecommendations  = "recomendacoes_focadas"
	FacetHorizonActionMap = "plano_de_acao_ia"
)

// FacetKeys lists every facet in production order.
var FacetKeys = []string{
	FacetGeneralAnalysis,
	FacetIdealCompany,
	FacetSimilarRoles,
	FacetSmartPlan,
	FacetNextSteps,
	FacetRecommendations,
	FacetHorizonActionMap,
}
