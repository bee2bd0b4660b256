package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/xavierca1/ligue-solar/internal/calculator"
	"github.com/xavierca1/ligue-solar/internal/export"
	"github.com/xavierca1/ligue-solar/internal/infra/integration/kommo"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Aviso: arquivo .env não encontrado, usando variáveis de ambiente do sistema")
	}

	token := os.Getenv("KOMMO_API_TOKEN")
	if token == "" {
		log.Fatal("❌ KOMMO_API_TOKEN deve estar configurado no .env")
	}
	baseURL := os.Getenv("KOMMO_BASE_URL")
	if baseURL == "" {
		baseURL = "https://liguesolar.kommo.com/api/v4"
	}

	client := kommo.NewClient(token, baseURL)

	calcs := calculator.Calculate(calculator.Input{
		DesiredKwh:         500,
		ModulePower:        550,
		PricePerKwp:        3500,
		MonthlyConsumption: 520,
	})

	input := kommo.CreateLeadInput{
		ClientName: "Joao Teste da Silva",
		Phone:      "5561999767638",
		Email:      "joao.teste@email.com",
		Title:      fmt.Sprintf("Sistema %s kWp", export.Number(calcs.SystemPowerKwp, 2)),
		Price:      calcs.TotalValue,
	}

	fmt.Println("🔄 Criando lead no Kommo...")
	fmt.Printf("📋 Dados:\n")
	fmt.Printf("   Nome: %s\n", input.ClientName)
	fmt.Printf("   Telefone: %s\n", input.Phone)
	fmt.Printf("   Email: %s\n", input.Email)
	fmt.Printf("   Sistema: %s (%d módulos)\n", input.Title, calcs.ModuleQuantity)
	fmt.Printf("   Valor: %s\n\n", export.BRL(input.Price))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	leadID, err := client.CreateLead(ctx, input)
	if err != nil {
		log.Fatalf("Erro ao criar lead no Kommo: %v", err)
	}

	accountID := os.Getenv("KOMMO_ACCOUNT_ID")
	if accountID == "" {
		accountID = "liguesolar"
	}

	fmt.Printf("Lead criado com sucesso no Kommo! \n")
	fmt.Printf(" ID do Lead: #%d\n", leadID)
	fmt.Printf(" Link: https://%s.kommo.com/leads/detail/%d\n", accountID, leadID)
}
