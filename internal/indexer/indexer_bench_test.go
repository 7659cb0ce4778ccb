package indexer

import (
	"context"
	"fmt"
	"testing"

	"github.com/dshills/inheritdoc/internal/model"
	"github.com/dshills/inheritdoc/pkg/types"
)

// chainSymbols builds depth types in a single superclass chain, each with a
// method whose docs are inherited from the root
func chainSymbols(depth int) []types.Symbol {
	syms := make([]types.Symbol, 0, depth*2)
	for i := range depth {
		typ := types.Symbol{ID: fmt.Sprintf("b.T%d", i), Name: fmt.Sprintf("T%d", i), Kind: types.KindType}
		if i > 0 {
			typ.Superclass = fmt.Sprintf("b.T%d", i-1)
		}
		method := types.Symbol{
			ID:         typ.ID + ".Do",
			Name:       "Do",
			Kind:       types.KindMethod,
			Enclosing:  typ.ID,
			Params:     []string{"int"},
			DocComment: "{@inheritDoc}\n\n@param n {@inheritDoc}",
		}
		if i == 0 {
			method.DocComment = "Do does it.\n\n@param n how many times"
		}
		syms = append(syms, typ, method)
	}
	return syms
}

func BenchmarkResolveAll(b *testing.B) {
	for _, depth := range []int{10, 100, 500} {
		b.Run(fmt.Sprintf("depth=%d", depth), func(b *testing.B) {
			m, _, err := model.Build(chainSymbols(depth))
			if err != nil {
				b.Fatal(err)
			}
			x, err := New(nil).Expander("text", nil)
			if err != nil {
				b.Fatal(err)
			}
			elements := m.Elements()

			for b.Loop() {
				if _, err := ResolveAll(context.Background(), elements, x, 0); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
