package parser

import (
	"fmt"
	"strings"
	"testing"
)

// =============================================================================
// Line Parsing Benchmarks
// =============================================================================

// BenchmarkParse_Match measures parsing of a well-formed line.
func BenchmarkParse_Match(b *testing.B) {
	line := "IntraCost T [x=64,y=32,w=16,h=8] 1234.75 (18,2,1,1,2,1)"

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := Parse(line); !ok {
			b.Fatal("line did not parse")
		}
	}
}

// BenchmarkParse_NoMatch measures rejection of unrelated encoder output,
// the common case in mixed-content logs.
func BenchmarkParse_NoMatch(b *testing.B) {
	line := "POC    8 TId: 0 ( B-SLICE, QP 32 )     112312 bits [Y 38.4312 dB    U 41.0033 dB    V 42.2212 dB]"

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := Parse(line); ok {
			b.Fatal("line should not parse")
		}
	}
}

// BenchmarkParse_NearMiss measures rejection of a truncated record.
func BenchmarkParse_NearMiss(b *testing.B) {
	line := "IntraCost T [x=64,y=32,w=16,h=8] 1234.75 (18,2,1"

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Parse(line)
	}
}

// BenchmarkFormat measures rendering a sample in the dump format.
func BenchmarkFormat(b *testing.B) {
	s := CostSample{
		Signature: Signature{Area: Area{X: 64, Y: 32, Width: 16, Height: 8}, IntraMode: 18, ISPMode: -1},
		Cost:      1234.75,
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Format(s)
	}
}

// =============================================================================
// Reader Throughput Benchmarks
// =============================================================================

// benchDump builds n lines, one in four being unrelated output.
func benchDump(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i%4 == 3 {
			sb.WriteString("POC 8 TId: 0 ( B-SLICE, QP 32 ) 112312 bits\n")
			continue
		}
		fmt.Fprintf(&sb, "IntraCost T [x=%d,y=%d,w=8,h=8] %d.5 (%d,0,0,0,0,0)\n",
			(i%60)*8, (i/60%34)*8, 1000+i%97, i%67)
	}
	return sb.String()
}

// BenchmarkReader_Run measures the full read-and-parse loop.
func BenchmarkReader_Run(b *testing.B) {
	for _, lines := range []int{1_000, 100_000} {
		b.Run(fmt.Sprintf("lines=%d", lines), func(b *testing.B) {
			dump := benchDump(lines)
			b.SetBytes(int64(len(dump)))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				var matched int
				p := NewRDLineParser(func(CostSample) { matched++ }, nil)
				if err := NewReader(nil).Run(strings.NewReader(dump), p); err != nil {
					b.Fatal(err)
				}
				if matched == 0 {
					b.Fatal("no lines matched")
				}
			}
		})
	}
}

// noopParser discards every line.
type noopParser struct{}

func (noopParser) ParseLine(string) {}

// BenchmarkReader_Noop measures the scanner alone.
func BenchmarkReader_Noop(b *testing.B) {
	dump := benchDump(100_000)
	b.SetBytes(int64(len(dump)))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := NewReader(nil).Run(strings.NewReader(dump), noopParser{}); err != nil {
			b.Fatal(err)
		}
	}
}
