package sheets

import (
	"bytes"
	"slices"
	"strconv"
	"strings"

	"github.com/kubev2v/rack-planner/internal/service/mappers"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var ErrNotExcelFile = errors.New("content is not an excel workbook")

// ParseCables reads the cable sheet of a workbook. The sheet named Cables is
// used when present, the first sheet otherwise. Blank rows are skipped.
func ParseCables(content []byte) ([]mappers.CableForm, error) {
	if !IsExcelFile(content) {
		return nil, ErrNotExcelFile
	}

	excelFile, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, errors.Wrap(err, "error opening Excel file")
	}
	defer excelFile.Close()

	sheets := excelFile.GetSheetList()
	sheetName := CableSheet
	if !slices.Contains(sheets, CableSheet) && len(sheets) > 0 {
		sheetName = sheets[0]
	}

	rows := readSheet(excelFile, sheets, sheetName)
	if len(rows) == 0 {
		return nil, errors.Errorf("sheet %q is empty", sheetName)
	}

	colMap := buildColumnMap(rows[0])
	for _, col := range requiredCableColumns {
		if _, ok := colMap[strings.ToLower(col)]; !ok {
			return nil, errors.Errorf("sheet %q misses column %q", sheetName, col)
		}
	}

	forms := make([]mappers.CableForm, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		form, err := parseCableRow(row, colMap)
		if err != nil {
			// first data row is row 2 of the sheet
			return nil, errors.Wrapf(err, "row %d", i+2)
		}
		forms = append(forms, form)
	}

	zap.S().Named("sheets").Debugf("parsed %d cables from sheet %q", len(forms), sheetName)

	return forms, nil
}

func parseCableRow(row []string, colMap map[string]int) (mappers.CableForm, error) {
	form := mappers.CableForm{
		ID:             getColumnValue(row, colMap, ColumnCableID),
		SourceDeviceID: getColumnValue(row, colMap, ColumnSourceDeviceID),
		SourcePort:     getColumnValue(row, colMap, ColumnSourcePort),
		TargetDeviceID: getColumnValue(row, colMap, ColumnTargetDeviceID),
		TargetPort:     getColumnValue(row, colMap, ColumnTargetPort),
		Type:           getColumnValue(row, colMap, ColumnCableType),
		Status:         getColumnValue(row, colMap, ColumnStatus),
		Description:    getColumnValue(row, colMap, ColumnDescription),
	}

	if raw := getColumnValue(row, colMap, ColumnCableLength); raw != "" {
		length, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return mappers.CableForm{}, errors.Wrapf(err, "invalid %s %q", ColumnCableLength, raw)
		}
		form.Length = &length
	}

	return form, nil
}
