package format

import (
	"path"
	"strings"
)

// Kind identifies a class of input file. The zero Kind is invalid.
type Kind int

const (
	Invalid Kind = iota
	Pk
	Tfm
	Afm
	Bib
	Bst
	Format
	FontMap
	Ofm
	Ovf
	Pict
	Tex
	TexPsHeader
	Type1
	Vf
	TrueType
	ProgramText
	ProgramBinary
	MiscFonts
	Enc
	Cmap
	Sfd
	OpenType
)

type kindInfo struct {
	code     int
	name     string
	suffixes []string
}

var kinds = map[Kind]kindInfo{
	Pk:            {1, "pk", []string{".pk"}},
	Tfm:           {3, "tfm", []string{".tfm"}},
	Afm:           {4, "afm", []string{".afm"}},
	Bib:           {6, "bib", []string{".bib"}},
	Bst:           {7, "bst", []string{".bst"}},
	Format:        {10, "fmt", []string{".fmt"}},
	FontMap:       {11, "map", []string{".map"}},
	Ofm:           {20, "ofm", []string{".ofm", ".tfm"}},
	Ovf:           {23, "ovf", []string{".ovf", ".vf"}},
	Pict:          {25, "pict", nil},
	Tex:           {26, "tex", []string{".tex"}},
	TexPsHeader:   {30, "tex-ps-header", []string{".pro"}},
	Type1:         {32, "type1", []string{".pfa", ".pfb"}},
	Vf:            {33, "vf", []string{".vf"}},
	TrueType:      {36, "truetype", []string{".ttf", ".ttc", ".dfont"}},
	ProgramText:   {39, "program-text", nil},
	ProgramBinary: {40, "program-binary", nil},
	MiscFonts:     {41, "misc-fonts", nil},
	Enc:           {44, "enc", []string{".enc"}},
	Cmap:          {45, "cmap", nil},
	Sfd:           {46, "sfd", []string{".sfd"}},
	OpenType:      {47, "opentype", []string{".otf"}},
}

var byCode = func() map[int]Kind {
	m := make(map[int]Kind, len(kinds))
	for k, info := range kinds {
		m[info.code] = k
	}
	return m
}()

// Classify maps a numeric format code onto a Kind. It reports false for
// every code that is not recognized.
func Classify(code int) (Kind, bool) {
	k, ok := byCode[code]
	return k, ok
}

// Valid reports whether k is one of the recognized kinds.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// Code returns the numeric format code for k, or -1 if k is invalid.
func (k Kind) Code() int {
	if info, ok := kinds[k]; ok {
		return info.code
	}
	return -1
}

func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return "invalid"
}

// Suffixes returns the file suffixes tried for k, in search order.
// The returned slice is a copy.
func (k Kind) Suffixes() []string {
	info, ok := kinds[k]
	if !ok || len(info.suffixes) == 0 {
		return nil
	}
	return append([]string(nil), info.suffixes...)
}

// All returns every recognized kind ordered by code.
func All() []Kind {
	out := make([]Kind, 0, len(kinds))
	for k := Pk; k <= OpenType; k++ {
		out = append(out, k)
	}
	return out
}

// Candidates lists the names a backend should try for name, in order: the
// literal name, then name with each suffix of kind it does not already end in.
func Candidates(name string, kind Kind) []string {
	out := []string{name}
	ext := strings.ToLower(path.Ext(name))
	for _, suffix := range kind.Suffixes() {
		if ext == suffix {
			continue
		}
		out = append(out, name+suffix)
	}
	return out
}
