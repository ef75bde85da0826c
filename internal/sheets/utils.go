package sheets

import (
	"bytes"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// CableSheet is the sheet holding one cable per row.
const CableSheet = "Cables"

const (
	ColumnCableID        = "cableId"
	ColumnSourceDeviceID = "sourceDeviceId"
	ColumnSourcePort     = "sourcePort"
	ColumnTargetDeviceID = "targetDeviceId"
	ColumnTargetPort     = "targetPort"
	ColumnCableType      = "cableType"
	ColumnCableLength    = "cableLength"
	ColumnStatus         = "status"
	ColumnDescription    = "description"
)

// CableColumns is the header row, in order, of an exported cable sheet.
var CableColumns = []string{
	ColumnCableID,
	ColumnSourceDeviceID,
	ColumnSourcePort,
	ColumnTargetDeviceID,
	ColumnTargetPort,
	ColumnCableType,
	ColumnCableLength,
	ColumnStatus,
	ColumnDescription,
}

var requiredCableColumns = []string{
	ColumnSourceDeviceID,
	ColumnSourcePort,
	ColumnTargetDeviceID,
	ColumnTargetPort,
}

func getColumnValue(row []string, colMap map[string]int, key string) string {
	if idx, exists := colMap[strings.ToLower(key)]; exists && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func buildColumnMap(headers []string) map[string]int {
	colMap := make(map[string]int)
	for i, header := range headers {
		key := strings.ToLower(strings.TrimSpace(header))
		colMap[key] = i
	}
	return colMap
}

func readSheet(excelFile *excelize.File, sheets []string, sheetName string) [][]string {
	if !slices.Contains(sheets, sheetName) {
		return [][]string{}
	}

	rows, err := excelFile.GetRows(sheetName)
	if err != nil {
		zap.S().Named("sheets").Warnf("Could not read %s sheet: %v", sheetName, err)
		return [][]string{}
	}

	return rows
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// IsExcelFile reports whether content is a workbook excelize can open.
func IsExcelFile(content []byte) bool {
	if len(content) < 2 {
		return false
	}

	if content[0] == 0x50 && content[1] == 0x4B {
		f, err := excelize.OpenReader(bytes.NewReader(content))
		if err != nil {
			return false
		}
		defer f.Close()
		return true
	}

	return false
}
