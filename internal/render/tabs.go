package render

import (
	"fmt"

	"github.com/bryanwahyu/arq-console/internal/domain/analysis"
)

func buildOverview(doc analysis.Document) []Node {
	meta := doc.Section("metadata_final")
	nodes := []Node{
		heading("Resumo da Análise"),
		Node{Kind: KindStats, Stats: []Stat{
			{Label: "Tipo de Análise", Value: meta.Str("analysis_type")},
			{Label: "Tempo de Processamento", Value: meta.Str("processing_time_formatted")},
			{Label: "Gerada em", Value: meta.Str("request_timestamp")},
			{Label: "Sessão", Value: meta.Str("session_id")},
		}},
	}

	insights := doc.Strings("insights_exclusivos")
	nodes = append(nodes,
		alert("info", fmt.Sprintf("%d insights exclusivos identificados", len(insights))),
		bullets("Insights Exclusivos", insights),
	)

	stats := doc.Section("pesquisa_web_massiva", "estatisticas")
	nodes = append(nodes,
		heading("Pesquisa Web Massiva"),
		Node{Kind: KindStats, Stats: []Stat{
			{Label: "Conteúdo Analisado", Value: fmt.Sprintf("%d caracteres", stats.Int("total_conteudo"))},
			{Label: "Fontes Únicas", Value: fmt.Sprintf("%d", stats.Int("fontes_unicas"))},
			{Label: "Qualidade Média", Value: stats.Percent("qualidade_media")},
		}},
	)
	return nodes
}

func buildArchaeology(doc analysis.Document) []Node {
	arq := doc.Section("analise_arqueologica")
	camadas := arq.Docs("camadas")

	nodes := []Node{
		heading("Escavação do DNA da Conversão"),
		alert("info", fmt.Sprintf("%d camadas escavadas", len(camadas))),
	}

	cards := make([]Card, 0, len(camadas))
	for i, camada := range camadas {
		cards = append(cards, Card{
			Title:    camada.StrOr("nome", fmt.Sprintf("Camada %d", i+1)),
			Subtitle: camada.StrOr("foco", ""),
			Body: []Node{
				scalarOrPairs(camada, "descoberta", "Descoberta"),
				scalarOrPairs(camada, "evidencia", "Evidência"),
			},
		})
	}
	nodes = append(nodes, Node{Kind: KindCards, Cards: cards})

	if arq.Has("dna_conversao") {
		nodes = append(nodes,
			heading("DNA da Conversão"),
			kv("", arq.Pairs("dna_conversao")),
		)
	}
	if arq.Has("cronometragem") {
		nodes = append(nodes, kv("Cronometragem", arq.Pairs("cronometragem")))
	}
	return nodes
}

func buildAvatar(doc analysis.Document) []Node {
	avatar := doc.Section("avatar_ultra_detalhado")
	return []Node{
		heading("Perfil Demográfico"),
		kv("", avatar.Pairs("perfil_demografico")),
		heading("Perfil Psicográfico"),
		kv("", avatar.Pairs("perfil_psicografico")),
		heading("Dores Viscerais"),
		bullets("", avatar.Strings("dores_viscerais")),
		heading("Desejos Secretos"),
		bullets("", avatar.Strings("desejos_secretos")),
		heading("Linguagem Interna"),
		kv("", avatar.Pairs("linguagem_interna")),
	}
}

func buildDrivers(doc analysis.Document) []Node {
	drivers := doc.Section("drivers_mentais_customizados").Docs("drivers_customizados")

	nodes := []Node{
		heading("Drivers Mentais Customizados"),
		alert("info", fmt.Sprintf("%d drivers customizados no arsenal", len(drivers))),
	}

	cards := make([]Card, 0, len(drivers))
	for _, drv := range drivers {
		body := []Node{
			scalarOrPairs(drv, "definicao_visceral", "Definição Visceral"),
			scalarOrPairs(drv, "momento_ideal", "Momento Ideal"),
		}
		if drv.Has("roteiro_ativacao") {
			body = append(body, accordion("Roteiro de Ativação", []Node{
				kv("", drv.Pairs("roteiro_ativacao")),
			}))
		}
		if frases := drv.Strings("frases_ancoragem"); len(frases) > 0 {
			body = append(body, accordion("Frases de Ancoragem", []Node{
				bullets("", frases),
			}))
		}
		cards = append(cards, Card{
			Title:    drv.Str("nome"),
			Subtitle: drv.StrOr("gatilho_central", ""),
			Body:     body,
		})
	}
	return append(nodes, Node{Kind: KindCards, Cards: cards})
}

func buildProofs(doc analysis.Document) []Node {
	proofs := doc.Docs("provas_visuais_sugeridas")

	nodes := []Node{
		heading("Provas Visuais Instantâneas"),
		alert("info", fmt.Sprintf("%d PROVIs sugeridas", len(proofs))),
	}

	cards := make([]Card, 0, len(proofs))
	for _, p := range proofs {
		body := []Node{
			scalarOrPairs(p, "experimento", "Experimento"),
		}
		if materiais := p.Strings("materiais"); len(materiais) > 0 {
			body = append(body, bullets("Materiais", materiais))
		}
		if p.Has("roteiro_completo") {
			body = append(body, accordion("Roteiro Completo", []Node{
				kv("", p.Pairs("roteiro_completo")),
			}))
		}
		cards = append(cards, Card{
			Title:    p.Str("nome"),
			Subtitle: p.StrOr("conceito_alvo", ""),
			Body:     body,
		})
	}
	return append(nodes, Node{Kind: KindCards, Cards: cards})
}

func buildObjections(doc analysis.Document) []Node {
	sys := doc.Section("sistema_anti_objecao")

	nodes := []Node{heading("Objeções Universais")}
	nodes = append(nodes, Node{Kind: KindCards, Cards: objectionCards(sys.Section("objecoes_universais"))})

	nodes = append(nodes, heading("Objeções Ocultas"))
	nodes = append(nodes, Node{Kind: KindCards, Cards: objectionCards(sys.Section("objecoes_ocultas"))})

	if arsenal := sys.Strings("arsenal_emergencia"); len(arsenal) > 0 {
		nodes = append(nodes,
			heading("Arsenal de Emergência"),
			bullets("", arsenal),
		)
	}
	return nodes
}

// objectionCards renders one card per named objection, in key order.
func objectionCards(section analysis.Document) []Card {
	entries := section.Objects()
	cards := make([]Card, 0, len(entries))
	for _, e := range entries {
		body := []Node{
			scalarOrPairs(e.Doc, "contra_ataque", "Contra-Ataque"),
		}
		if scripts := e.Doc.Strings("scripts"); len(scripts) > 0 {
			body = append(body, accordion("Scripts", []Node{bullets("", scripts)}))
		}
		cards = append(cards, Card{
			Title:    e.Doc.StrOr("objecao", e.Key),
			Subtitle: e.Doc.StrOr("perfil_tipico", ""),
			Body:     body,
		})
	}
	return cards
}

func buildPrePitch(doc analysis.Document) []Node {
	pp := doc.Section("pre_pitch_invisivel")
	fases := pp.Section("orquestracao_emocional").Docs("sequencia_psicologica")

	nodes := []Node{
		heading("Orquestração Emocional"),
		alert("info", fmt.Sprintf("%d fases na sequência psicológica", len(fases))),
	}

	cards := make([]Card, 0, len(fases))
	for i, fase := range fases {
		body := []Node{
			scalarOrPairs(fase, "objetivo", "Objetivo"),
			para("Duração", fase.StrOr("tempo", "N/A")),
		}
		if tecnicas := fase.Strings("tecnicas"); len(tecnicas) > 0 {
			body = append(body, bullets("Técnicas", tecnicas))
		}
		cards = append(cards, Card{
			Title: fase.StrOr("fase", fmt.Sprintf("Fase %d", i+1)),
			Body:  body,
		})
	}
	nodes = append(nodes, Node{Kind: KindCards, Cards: cards})

	if pp.Has("roteiro_completo") {
		nodes = append(nodes, accordion("Roteiro Completo do Pré-Pitch", []Node{
			kv("", pp.Pairs("roteiro_completo")),
		}))
	}
	return nodes
}

func buildMetrics(doc analysis.Document) []Node {
	met := doc.Section("metricas_forenses")
	densidade := met.Section("densidade_persuasiva")
	intensidade := met.Section("intensidade_emocional")

	nodes := []Node{
		heading("Densidade Persuasiva"),
		Node{Kind: KindStats, Stats: []Stat{
			{Label: "Argumentos Lógicos", Value: fmt.Sprintf("%d", densidade.Int("argumentos_logicos"))},
			{Label: "Argumentos Emocionais", Value: fmt.Sprintf("%d", densidade.Int("argumentos_emocionais"))},
			{Label: "Ratio Promessa/Prova", Value: densidade.Ratio("ratio_promessa_prova")},
		}},
		heading("Intensidade Emocional"),
		Node{Kind: KindMeters, Meters: []Meter{
			{Label: "Medo", Percent: intensidade.Percent("medo")},
			{Label: "Desejo", Percent: intensidade.Percent("desejo")},
			{Label: "Urgência", Percent: intensidade.Percent("urgencia")},
			{Label: "Aspiração", Percent: intensidade.Percent("aspiracao")},
		}},
		heading("Cobertura"),
		Node{Kind: KindStats, Stats: []Stat{
			{Label: "Cobertura de Objeções", Value: met.Percent("cobertura_objecoes")},
		}},
	}

	if met.Has("metricas_objetivas") {
		nodes = append(nodes, kv("Métricas Objetivas", met.Pairs("metricas_objetivas")))
	}
	return nodes
}
