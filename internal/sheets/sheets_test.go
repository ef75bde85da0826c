package sheets_test

import (
	"bytes"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/kubev2v/rack-planner/internal/sheets"
	"github.com/kubev2v/rack-planner/internal/store/model"
)

func setCellValue(f *excelize.File, sheet, ref string, value any) {
	Expect(f.SetCellValue(sheet, ref, value)).To(Succeed())
}

func writeBuffer(f *excelize.File, buf *bytes.Buffer) {
	_, err := f.WriteTo(buf)
	Expect(err).To(Succeed())
}

func columnToLetter(col int) string {
	name, _ := excelize.ColumnNumberToName(col + 1)
	return name
}

func createWorkbook(sheet string, headers []string, rows [][]string) []byte {
	f := excelize.NewFile()
	defer f.Close()

	Expect(f.SetSheetName(f.GetSheetName(0), sheet)).To(Succeed())
	for colIndex, header := range headers {
		setCellValue(f, sheet, columnToLetter(colIndex)+"1", header)
	}
	for rowIndex, row := range rows {
		for colIndex, value := range row {
			setCellValue(f, sheet, columnToLetter(colIndex)+fmt.Sprintf("%d", rowIndex+2), value)
		}
	}

	var buf bytes.Buffer
	writeBuffer(f, &buf)
	return buf.Bytes()
}

var _ = Describe("cable sheets", func() {
	Context("parse", func() {
		It("reads every non blank row", func() {
			content := createWorkbook("Cables", sheets.CableColumns, [][]string{
				{"CABLE-1", "DEV-1", "eth0", "DEV-2", "eth1", "fiber", "2.5", "normal", "uplink"},
				{"", "", "", "", "", "", "", "", ""},
				{"", "DEV-3", "eth0", "DEV-4", "eth0"},
			})

			forms, err := sheets.ParseCables(content)
			Expect(err).To(BeNil())
			Expect(forms).To(HaveLen(2))

			Expect(forms[0].ID).To(Equal("CABLE-1"))
			Expect(forms[0].SourceDeviceID).To(Equal("DEV-1"))
			Expect(forms[0].TargetPort).To(Equal("eth1"))
			Expect(forms[0].Type).To(Equal("fiber"))
			Expect(*forms[0].Length).To(Equal(2.5))
			Expect(forms[0].Description).To(Equal("uplink"))

			Expect(forms[1].ID).To(BeEmpty())
			Expect(forms[1].Length).To(BeNil())
			Expect(forms[1].SourceDeviceID).To(Equal("DEV-3"))
		})

		It("accepts headers in any order and case", func() {
			content := createWorkbook("export", []string{"TargetPort", "targetDeviceId", "SOURCEPORT", "sourceDeviceId"}, [][]string{
				{"eth9", "DEV-2", "eth1", "DEV-1"},
			})

			forms, err := sheets.ParseCables(content)
			Expect(err).To(BeNil())
			Expect(forms).To(HaveLen(1))
			Expect(forms[0].SourcePort).To(Equal("eth1"))
			Expect(forms[0].TargetPort).To(Equal("eth9"))
		})

		It("fails when a required column is missing", func() {
			content := createWorkbook("Cables", []string{"sourceDeviceId", "sourcePort", "targetDeviceId"}, nil)

			_, err := sheets.ParseCables(content)
			Expect(err).ToNot(BeNil())
			Expect(err.Error()).To(ContainSubstring("targetPort"))
		})

		It("reports the row of an invalid length", func() {
			content := createWorkbook("Cables", sheets.CableColumns, [][]string{
				{"CABLE-1", "DEV-1", "eth0", "DEV-2", "eth1", "fiber", "long", "normal", ""},
			})

			_, err := sheets.ParseCables(content)
			Expect(err).ToNot(BeNil())
			Expect(err.Error()).To(ContainSubstring("row 2"))
		})

		It("rejects content that is not a workbook", func() {
			_, err := sheets.ParseCables([]byte("sourceDeviceId,sourcePort"))
			Expect(err).To(MatchError(sheets.ErrNotExcelFile))
		})
	})

	Context("write", func() {
		It("writes cables that parse back", func() {
			length := 3.0
			cables := model.CableList{
				{ID: "CABLE-1", SourceDeviceID: "DEV-1", SourcePort: "eth0", TargetDeviceID: "DEV-2", TargetPort: "eth0", Type: "ethernet", Length: &length, Status: "normal"},
				{ID: "CABLE-2", SourceDeviceID: "DEV-1", SourcePort: "eth1", TargetDeviceID: "DEV-3", TargetPort: "eth0", Type: "fiber", Status: "fault", Description: "flapping"},
			}

			var buf bytes.Buffer
			Expect(sheets.WriteCables(&buf, cables)).To(Succeed())

			forms, err := sheets.ParseCables(buf.Bytes())
			Expect(err).To(BeNil())
			Expect(forms).To(HaveLen(2))
			Expect(forms[0].ID).To(Equal("CABLE-1"))
			Expect(*forms[0].Length).To(Equal(3.0))
			Expect(forms[1].Length).To(BeNil())
			Expect(forms[1].Status).To(Equal("fault"))
			Expect(forms[1].Description).To(Equal("flapping"))
		})

		It("writes only the header for no cables", func() {
			var buf bytes.Buffer
			Expect(sheets.WriteCables(&buf, model.CableList{})).To(Succeed())

			f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
			Expect(err).To(BeNil())
			defer f.Close()

			rows, err := f.GetRows(sheets.CableSheet)
			Expect(err).To(BeNil())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0]).To(Equal(sheets.CableColumns))
		})
	})
})
