// Package csvimport decodifica el archivo CSV de importación masiva de productos.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Estoque-api/internal/application/catalog"
	"github.com/jhoicas/Estoque-api/internal/domain"
)

// MaxSize tamaño máximo aceptado del archivo.
const MaxSize = 5 << 20

// columnas aceptadas (portugués como en las planillas originales, más alias en inglés).
var headerAliases = map[string]string{
	"codigo":             "code",
	"code":               "code",
	"nome":               "name",
	"name":               "name",
	"preco":              "price",
	"price":              "price",
	"descricao":          "description",
	"description":        "description",
	"fornecedores_nomes": "suppliers",
	"suppliers":          "suppliers",
	"naturezas_nomes":    "natures",
	"natures":            "natures",
	"quantidade":         "quantity",
	"quantity":           "quantity",
}

// Decode lee el CSV (UTF-8 o ISO-8859-1, separador ';' o ',') y devuelve las filas numeradas
// desde 2. Las filas completamente vacías se omiten.
func Decode(r io.Reader) ([]catalog.ImportRow, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("leer archivo: %w", err)
	}
	if len(raw) > MaxSize {
		return nil, domain.Validation("el archivo supera el tamaño máximo permitido")
	}
	text, err := toUTF8(raw)
	if err != nil {
		return nil, domain.Validation("no se pudo decodificar el archivo")
	}
	text = strings.TrimPrefix(text, "\ufeff")
	if strings.TrimSpace(text) == "" {
		return nil, domain.Validation("el archivo está vacío")
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, domain.Validation("cabecera CSV inválida")
	}
	index := map[string]int{}
	for i, h := range header {
		if field, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			index[field] = i
		}
	}
	if _, ok := index["code"]; !ok {
		return nil, domain.Validation("falta la columna 'codigo'")
	}
	if _, ok := index["name"]; !ok {
		return nil, domain.Validation("falta la columna 'nome'")
	}

	var rows []catalog.ImportRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, domain.Validation(fmt.Sprintf("CSV inválido en la línea %d", parseErr.Line))
			}
			return nil, err
		}
		if blank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)
		get := func(field string) string {
			i, ok := index[field]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		rows = append(rows, catalog.ImportRow{
			Line:        line,
			Code:        get("code"),
			Name:        get("name"),
			Price:       get("price"),
			Description: get("description"),
			Suppliers:   get("suppliers"),
			Natures:     get("natures"),
			Quantity:    get("quantity"),
		})
	}
	return rows, nil
}

// toUTF8 devuelve el texto tal cual si es UTF-8 válido; si no, lo interpreta como ISO-8859-1.
func toUTF8(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// detectDelimiter usa ';' si aparece en la primera línea; si no, ','.
func detectDelimiter(text string) rune {
	first, _, _ := strings.Cut(text, "\n")
	if strings.ContainsRune(first, ';') {
		return ';'
	}
	return ','
}

func blank(record []string) bool {
	return strings.TrimSpace(strings.Join(record, "")) == ""
}
