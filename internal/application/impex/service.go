// Package impex implementa la importación masiva de artículos (CSV/XLS/XLSX) y su exportación.
package impex

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Service importa y exporta el catálogo de artículos.
type Service struct {
	txRunner TxRunner
	items    repository.ItemRepository
	log      zerolog.Logger
}

// NewService construye el servicio.
func NewService(txRunner TxRunner, items repository.ItemRepository, log zerolog.Logger) *Service {
	return &Service{txRunner: txRunner, items: items, log: log}
}

// Import lee el archivo y hace upsert por item_code de cada fila válida.
// Los errores de validación por fila se acumulan sin abortar el lote; cualquier otro
// error revierte la transacción completa.
func (s *Service) Import(ctx context.Context, filename string, r io.Reader) (*dto.ImportResult, error) {
	records, err := ReadRecords(filename, r)
	if err != nil {
		return nil, err
	}

	batch := uuid.NewString()
	log := s.log.With().Str("batch", batch).Str("file", filename).Logger()
	log.Info().Int("rows", len(records)).Msg("import started")

	var result *dto.ImportResult
	err = s.txRunner.Run(ctx, func(items repository.ItemRepository, _ repository.MovementRepository) error {
		res := &dto.ImportResult{Errors: []string{}}
		valid, err := validateRows(ctx, items, records, res)
		if err != nil {
			return err
		}
		for _, row := range valid {
			created, err := items.UpsertByCode(ctx, row.item)
			if err != nil {
				return fmt.Errorf("row %d: %w", row.n, err)
			}
			if created {
				res.Created++
			} else {
				res.Updated++
			}
		}
		result = res
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("import rolled back")
		return nil, err
	}

	log.Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("errors", len(result.Errors)).
		Msg("import finished")
	return result, nil
}

type validRow struct {
	n    int
	item *entity.Item
}

// validateRows revisa todas las filas contra el catálogo previo al lote, antes de escribir
// nada: dos filas nuevas con el mismo nombre pasan ambas. Los mensajes usan el número de
// fila del archivo (1 = primera fila de datos).
func validateRows(ctx context.Context, items repository.ItemRepository, records []Row, res *dto.ImportResult) ([]validRow, error) {
	valid := make([]validRow, 0, len(records))
	for _, row := range records {
		n, rec := row.N, row.Record
		code := rec.Text("item_code")
		name := rec.Text("item_name")
		if code == "" || name == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d missing item_code or item_name", n))
			continue
		}
		taken, err := items.NameTakenByOtherCode(ctx, name, code)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n, err)
		}
		if taken {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d item name already exists: %s", n, name))
			continue
		}
		valid = append(valid, validRow{n: n, item: dto.DecodeItem(rec)})
	}
	return valid, nil
}

// ExportCSV escribe todos los artículos (id descendente) como CSV con las columnas de
// importación más created_at y updated_at.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	list, err := s.items.ListAll(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(dto.ExportHeader()); err != nil {
		return err
	}
	for _, it := range list {
		if err := cw.Write(dto.ExportRow(it)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportXLSX igual que ExportCSV pero en un libro xlsx de una hoja.
func (s *Service) ExportXLSX(ctx context.Context, w io.Writer) error {
	list, err := s.items.ListAll(ctx)
	if err != nil {
		return err
	}
	wb := excelize.NewFile()
	defer wb.Close()
	sheet := wb.GetSheetName(0)

	if err := writeSheetRow(wb, sheet, 1, dto.ExportHeader()); err != nil {
		return err
	}
	for i, it := range list {
		if err := writeSheetRow(wb, sheet, i+2, dto.ExportRow(it)); err != nil {
			return err
		}
	}
	_, err = wb.WriteTo(w)
	return err
}

// Export escribe en el formato pedido (csv o xlsx).
func (s *Service) Export(ctx context.Context, format Format, w io.Writer) error {
	switch format {
	case FormatCSV, "":
		return s.ExportCSV(ctx, w)
	case FormatXLSX:
		return s.ExportXLSX(ctx, w)
	default:
		return fmt.Errorf("export %s: %w", format, errUnsupportedExport)
	}
}

func writeSheetRow(wb *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return wb.SetSheetRow(sheet, cell, &cells)
}
