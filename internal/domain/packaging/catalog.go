// Package packaging define el catálogo cerrado de embalagens (unidades de empaque)
// con que se registran y etiquetan los lotes de estoque.
package packaging

import "strings"

// Kind es un token de embalagem del catálogo.
type Kind string

// Tokens canónicos. El orden de declaración es el orden de exhibición.
const (
	Sacaria    Kind = "SACARIA"
	Bag1Tn     Kind = "BAG_1TN"
	Bag750Kg   Kind = "BAG_750KG"
	Litro      Kind = "LITRO"
	Galao2L    Kind = "GALAO_2L"
	Galao5L    Kind = "GALAO_5L"
	Galao10L   Kind = "GALAO_10L"
	Balde20L   Kind = "BALDE_20L"
	Tambor200L Kind = "TAMBOR_200L"
	IBC1000L   Kind = "IBC_1000L"
	Pacote1Kg  Kind = "PACOTE_1KG"
	Pacote5Kg  Kind = "PACOTE_5KG"
	Pacote10Kg Kind = "PACOTE_10KG"
	Pacote15Kg Kind = "PACOTE_15KG"
	Pacote500G Kind = "PACOTE_500G"
	Outros     Kind = "OUTROS"
)

var ordered = [...]Kind{
	Sacaria, Bag1Tn, Bag750Kg, Litro,
	Galao2L, Galao5L, Galao10L,
	Balde20L, Tambor200L, IBC1000L,
	Pacote1Kg, Pacote5Kg, Pacote10Kg,
	Pacote15Kg, Pacote500G, Outros,
}

var index = func() map[Kind]struct{} {
	m := make(map[Kind]struct{}, len(ordered))
	for _, k := range ordered {
		m[k] = struct{}{}
	}
	return m
}()

// All devuelve los 16 tokens en orden canónico. El slice es una copia.
func All() []Kind {
	out := make([]Kind, len(ordered))
	copy(out, ordered[:])
	return out
}

// IsValid indica si el token pertenece al catálogo (comparación exacta).
func IsValid(token string) bool {
	_, ok := index[Kind(token)]
	return ok
}

// Parse convierte un token en Kind; ok=false si no pertenece al catálogo.
func Parse(token string) (Kind, bool) {
	k := Kind(token)
	_, ok := index[k]
	return k, ok
}

// Label es el rótulo de exhibición: "GALAO_5L" -> "GALAO 5L".
func (k Kind) Label() string {
	return strings.ReplaceAll(string(k), "_", " ")
}

func (k Kind) String() string { return string(k) }
