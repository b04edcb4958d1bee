package core

import (
	"strconv"
	"strings"
	"testing"
)

func benchmarkInput(rows int) string {
	var b strings.Builder
	b.WriteString("id,name,amount,active\n")
	for i := 0; i < rows; i++ {
		b.WriteString(strconv.Itoa(i))
		b.WriteString(",\"O'Name ")
		b.WriteString(strconv.Itoa(i))
		b.WriteString("\",\"$1,234\",true\n")
	}
	return b.String()
}

func BenchmarkParse(b *testing.B) {
	input := benchmarkInput(1000)
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Parse(input, ParseOptions{})
	}
}

func BenchmarkGenerate(b *testing.B) {
	res := Parse(benchmarkInput(1000), ParseOptions{})
	cfg := DefaultConfigs(res.Fields, nil)
	cfg["id"] = ColumnConfig{TargetName: "id", Type: TypeInt, Include: true}
	cfg["amount"] = ColumnConfig{TargetName: "amount", Type: TypeInt, Include: true}
	cfg["active"] = ColumnConfig{TargetName: "active", Type: TypeBool, Include: true}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Generate(res.Fields, res.Rows, cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCoerceInt(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = CoerceInt("$1,234,567")
	}
}
