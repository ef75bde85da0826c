package sheets

import (
	"io"
	"strconv"

	"github.com/kubev2v/rack-planner/internal/store/model"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// WriteCables writes the cables as a workbook with a single Cables sheet.
// The output can be fed back to ParseCables.
func WriteCables(w io.Writer, cables model.CableList) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), CableSheet); err != nil {
		return errors.Wrap(err, "failed to name cable sheet")
	}

	header := make([]any, 0, len(CableColumns))
	for _, col := range CableColumns {
		header = append(header, col)
	}
	if err := f.SetSheetRow(CableSheet, "A1", &header); err != nil {
		return errors.Wrap(err, "failed to write header")
	}

	for i, cable := range cables {
		length := ""
		if cable.Length != nil {
			length = strconv.FormatFloat(*cable.Length, 'f', -1, 64)
		}
		row := []any{
			cable.ID,
			cable.SourceDeviceID,
			cable.SourcePort,
			cable.TargetDeviceID,
			cable.TargetPort,
			cable.Type,
			length,
			cable.Status,
			cable.Description,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(CableSheet, cell, &row); err != nil {
			return errors.Wrapf(err, "failed to write cable %s", cable.ID)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write workbook")
	}
	return nil
}
