package variadic

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type TextTestSuite struct {
	suite.Suite
	tt *testTypes
}

func TestTextSuite(t *testing.T) {
	suite.Run(t, new(TextTestSuite))
}

func (s *TextTestSuite) SetupTest() {
	s.tt = newTestTypes(s.T())
}

func (s *TextTestSuite) TestExportEmpty() {
	var v VariadicStruct
	s.Equal("None", v.ExportTextString())
}

func (s *TextTestSuite) TestRoundTrip() {
	v, err := Make(s.tt.reg, pointI{X: 1, Y: -2})
	s.Require().NoError(err)

	text := v.ExportTextString()
	s.True(strings.HasPrefix(text, "test.PointI(0x"), text)

	var out VariadicStruct
	rest, err := out.ImportText(text, s.tt.reg)
	s.Require().NoError(err)
	s.Empty(rest)
	s.True(out.Equal(v))
}

func (s *TextTestSuite) TestImportEmptyForms() {
	for _, in := range []string{"None", "none", "()", ""} {
		s.Run(strconv.Quote(in), func() {
			out, err := Make(s.tt.reg, pointI{X: 1})
			s.Require().NoError(err)

			rest, err := out.ImportText(in, s.tt.reg)
			s.Require().NoError(err)
			s.Empty(rest)
			s.False(out.IsValid())
		})
	}
}

func (s *TextTestSuite) TestImportLeavesTrailingInput() {
	v, err := Make(s.tt.reg, vec3{X: 4})
	s.Require().NoError(err)

	var out VariadicStruct
	rest, err := out.ImportText(v.ExportTextString()+", Tag=7", s.tt.reg)
	s.Require().NoError(err)
	s.Equal(", Tag=7", rest)
	s.True(out.Equal(v))
}

func (s *TextTestSuite) TestImportUnknownType() {
	var out VariadicStruct
	_, err := out.ImportText("test.Ghost(0x00)", s.tt.reg)
	s.ErrorIs(err, ErrMalformedText)
}

func (s *TextTestSuite) TestImportThroughRedirect() {
	s.tt.reg.AddRedirect("old.PointI", "test.PointI")

	want := pointI{X: 8, Y: 15}
	in := fmt.Sprintf("old.PointI(0x%x)", encode(s.T(), want))

	var out VariadicStruct
	rest, err := out.ImportText(in, s.tt.reg)
	s.Require().NoError(err)
	s.Empty(rest)
	s.Equal(want, MustValue[pointI](&out))
}

func (s *TextTestSuite) TestImportMalformedPayload() {
	for name, in := range map[string]string{
		"WrongOpener":   "test.PointI[0x00]",
		"Unterminated":  "test.PointI(0xABCD",
		"BadHex":        "test.PointI(0xZZ)",
		"WrongSize":     "test.PointI(0xAB)",
	} {
		s.Run(name, func() {
			var out VariadicStruct
			rest, err := out.ImportText(in, s.tt.reg)
			s.ErrorIs(err, ErrMalformedText)
			s.Equal(in, rest, "failed imports leave the input untouched")
		})
	}
}

func (s *TextTestSuite) TestCustomTextOps() {
	reg := NewRegistry()
	td := MustRegister[pointI](reg, "fmt.Point", WithOps(Ops{
		ExportText: func(sb *strings.Builder, value []byte) {
			sb.WriteString("(")
			sb.WriteString(strconv.Itoa(int(Order.Uint32(value))))
			sb.WriteString(")")
		},
		ImportText: func(in string, value []byte) (string, error) {
			body, rest, ok := strings.Cut(strings.TrimPrefix(in, "("), ")")
			if !ok {
				return in, ErrMalformedText
			}
			n, err := strconv.Atoi(body)
			if err != nil {
				return in, ErrMalformedText
			}
			Order.PutUint32(value, uint32(n))
			return rest, nil
		},
	}))

	var v VariadicStruct
	v.InitializeAs(td, encode(s.T(), pointI{X: 42}))
	s.Equal("fmt.Point(42)", v.ExportTextString())

	var out VariadicStruct
	rest, err := out.ImportText("fmt.Point(42)", reg)
	s.Require().NoError(err)
	s.Empty(rest)
	s.Equal(int32(42), MustValue[pointI](&out).X)
}
