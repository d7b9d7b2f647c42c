// Package pipeline provides the shared engine behind the lead and post-sale
// funnels: stage vocabularies, the record repository over the tabular store,
// and the join-flattening used to shape records for clients.
package pipeline

// Lead pipeline stages, in advisory funnel order. The order is UI guidance
// only; any stage may move to any other.
var LeadStages = []string{
	"Aguardando retorno",
	"Em atendimento",
	"Reunião",
	"Em proposta",
	"Finalizado",
}

// LeadArchivedStage marks a lead that was converted into the post-sale
// pipeline. The row is retained for audit history and never deleted; it is
// excluded from the kanban board and reachable only through conversion.
const LeadArchivedStage = "Venda Concluída - ARQUIVADO"

// Post-sale pipeline stages, in advisory funnel order.
var PostSaleStages = []string{
	"Entrega Realizada",
	"Aguardando Feedback",
	"Feedback Recebido",
	"Suporte/Ações Corretivas",
	"Possível Upsell",
	"Finalizado pós-venda",
}

// PostSaleInitialStage is the stage every converted lead lands on.
const PostSaleInitialStage = "Entrega Realizada"

// IsStage reports whether stage belongs to the given vocabulary.
func IsStage(vocabulary []string, stage string) bool {
	for _, s := range vocabulary {
		if s == stage {
			return true
		}
	}
	return false
}
