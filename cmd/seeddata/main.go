// Command seeddata populates a development database with sample orders and
// fiado debts so the cash drawer flow can be exercised end to end.
package main

import (
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/config"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/infra"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	endereco := "Rua das Laranjeiras, 102"
	parcial := decimal.NewFromInt(40)
	pedidos := []model.Pedido{
		{ClienteNome: "Maria Souza", Status: model.PedidoEntregue, Total: decimal.NewFromInt(100), FormaPagamento: "DINHEIRO"},
		{ClienteNome: "João Lima", Endereco: &endereco, Status: model.PedidoEntregue, Total: decimal.NewFromInt(50), FormaPagamento: "PIX"},
		{ClienteNome: "Ana Castro", Status: model.PedidoEntregue, Total: decimal.NewFromInt(100), FormaPagamento: "DINHEIRO + PIX", ValorParcial1: &parcial},
		{ClienteNome: "Carlos Dias", Status: model.PedidoEmPreparo, Total: decimal.NewFromFloat(72.5), FormaPagamento: "Cartão de Crédito"},
	}
	for i := range pedidos {
		if err := db.Create(&pedidos[i]).Error; err != nil {
			log.Fatal().Err(err).Msg("failed to seed pedido")
		}
	}

	fiados := []model.Fiado{
		{ClienteNome: "Maria Souza", Valor: decimal.NewFromInt(30), Status: model.FiadoAberto},
		{ClienteNome: "Pedro Alves", Valor: decimal.NewFromFloat(18.9), Status: model.FiadoAberto},
	}
	for i := range fiados {
		if err := db.Create(&fiados[i]).Error; err != nil {
			log.Fatal().Err(err).Msg("failed to seed fiado")
		}
	}

	log.Info().
		Int("pedidos", len(pedidos)).
		Int("fiados", len(fiados)).
		Msg("seed concluído")
}
