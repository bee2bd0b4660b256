// Package sheet serializes proposals to CSV and converts that CSV into a
// single-sheet XLSX workbook.
package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/xavierca1/ligue-solar/internal/entity"
)

const SheetName = "Propostas"

// Header na ordem fixa do arquivo exportado.
var Header = []string{
	"Data",
	"Vendedor",
	"Cliente",
	"Potência (kWp)",
	"Valor Total (R$)",
	"Geração Mensal (kWh)",
	"Economia Mensal (R$)",
}

func CSVFilename(now time.Time) string {
	return fmt.Sprintf("propostas_%s.csv", now.Format("2006-01-02"))
}

func XLSXFilename(now time.Time) string {
	return fmt.Sprintf("propostas_%s.xlsx", now.Format("2006-01-02"))
}

// WriteCSV escreve uma linha por proposta, valores com ponto decimal.
func WriteCSV(w io.Writer, proposals []entity.Proposal) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, p := range proposals {
		record := []string{
			p.CreatedAt.Format("2006-01-02"),
			p.SellerName,
			p.ClientName,
			strconv.FormatFloat(p.SystemPowerKwp, 'f', 2, 64),
			strconv.FormatFloat(p.TotalValue, 'f', 2, 64),
			strconv.FormatFloat(p.MonthlyGeneration, 'f', 0, 64),
			strconv.FormatFloat(p.MonthlySavings, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Colunas de Header gravadas como número; o resto fica texto.
var numericColumns = map[int]bool{3: true, 4: true, 5: true, 6: true}

// CSVToXLSX converte o CSV em uma planilha de aba única. Só as colunas
// numéricas viram número, nomes como "123" continuam texto.
func CSVToXLSX(r io.Reader, w io.Writer) error {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return fmt.Errorf("csv inválido: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	for i, record := range records {
		row := make([]any, len(record))
		for j, cell := range record {
			row[j] = cell
			if i == 0 || !numericColumns[j] {
				continue
			}
			if n, err := strconv.ParseFloat(cell, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
				row[j] = n
			}
		}
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, addr, &row); err != nil {
			return err
		}
	}

	if len(records) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err == nil {
			last, _ := excelize.CoordinatesToCellName(len(records[0]), 1)
			_ = f.SetCellStyle(SheetName, "A1", last, style)
		}
	}

	_, err = f.WriteTo(w)
	return err
}

// WriteXLSX gera o CSV e converte, mantendo um único formato de linha.
func WriteXLSX(w io.Writer, proposals []entity.Proposal) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, proposals); err != nil {
		return err
	}
	return CSVToXLSX(&buf, w)
}
