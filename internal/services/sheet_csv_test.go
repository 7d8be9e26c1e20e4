package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrdersCSVRowIndexes(t *testing.T) {
	codec := NewSheetCodec(nil)

	csv := "id,tracking,carrier,date,name,phone,address,product,platform,price,status,deadline,note,template\n" +
		"DH001,,,,,,,Thảm A,,100\n" +
		"\n" +
		"DH002,,,,,,,Thảm B,,200\n"

	orders := ParseOrdersCSV(csv, codec)
	require.Len(t, orders, 2)

	// rowIndex tracks the physical spreadsheet line, so the blank line between
	// the two orders still consumes an index.
	assert.Equal(t, "DH001", orders[0].ID)
	assert.Equal(t, 2, orders[0].RowIndex)
	assert.Equal(t, "DH002", orders[1].ID)
	assert.Equal(t, 4, orders[1].RowIndex)
}

func TestParseOrdersCSVHeaderOnly(t *testing.T) {
	codec := NewSheetCodec(nil)
	assert.Nil(t, ParseOrdersCSV("id,tracking,carrier", codec))
	assert.Empty(t, ParseOrdersCSV("id,tracking,carrier\n", codec))
}

func TestParseCSVLineQuoting(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, parseCSVLine("a,b,c"))
	assert.Equal(t, []string{"a,b", "c"}, parseCSVLine(`"a,b",c`))
	assert.Equal(t, []string{`a,"b"`}, parseCSVLine(`"a,""b"""`))
	assert.Equal(t, []string{"a", "", "c"}, parseCSVLine("a,,c"))
	assert.Equal(t, []string{"a", "b"}, parseCSVLine("  a  ,  b  "))
}

func TestParseOrdersCSVQuotedAddress(t *testing.T) {
	codec := NewSheetCodec(nil)

	csv := "header\n" +
		`DH005,,,,"Nguyễn, Văn D",,"12 Trần Hưng Đạo, Q1, HCM",,,,` + "\n"

	orders := ParseOrdersCSV(csv, codec)
	require.Len(t, orders, 1)
	assert.Equal(t, "Nguyễn, Văn D", orders[0].CustomerName)
	assert.Equal(t, "12 Trần Hưng Đạo, Q1, HCM", orders[0].Address)
}
