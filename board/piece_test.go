package board

import "testing"

func TestPieceBitLayout(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		piece Piece
		want  uint8
	}{
		{name: "empty", piece: PieceUnknown, want: 0},
		{name: "black king", piece: NewPiece(SideBlack, PieceKing), want: 0b0000_0001},
		{name: "white king", piece: NewPiece(SideWhite, PieceKing), want: 0b1000_0001},
		{name: "white queen", piece: NewPiece(SideWhite, PieceQueen), want: 0b1000_0010},
		{name: "black rook", piece: NewPiece(SideBlack, PieceRook), want: 0b0000_0100},
		{name: "black bishop", piece: NewPiece(SideBlack, PieceBishop), want: 0b0000_1000},
		{name: "white knight", piece: NewPiece(SideWhite, PieceKnight), want: 0b1001_0000},
		{name: "white pawn", piece: NewPiece(SideWhite, PiecePawn), want: 0b1010_0000},
		{name: "black rook bishop", piece: NewPiece(SideBlack, PieceRook, PieceBishop), want: 0b0000_1100},
		{name: "no types is empty", piece: NewPiece(SideWhite), want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := uint8(tt.piece); got != tt.want {
				t.Errorf("unexpected bits: got=%08b want=%08b", got, tt.want)
			}
		})
	}
}

func TestPieceFlags(t *testing.T) {
	t.Parallel()
	p := NewPiece(SideWhite, PieceQueen, PieceKnight)
	if p.Side() != SideWhite {
		t.Errorf("unexpected side: got=%s want=%s", p.Side(), SideWhite)
	}
	if !p.Has(PieceQueen) || !p.Has(PieceKnight) || p.Has(PieceRook) {
		t.Errorf("unexpected flags: %08b", uint8(p))
	}
	if !p.IsHybrid() {
		t.Error("expected hybrid")
	}
	if NewPiece(SideBlack, PiecePawn).IsHybrid() {
		t.Error("unexpected hybrid")
	}
	if got := p.Name(); got != "Queen+Knight" {
		t.Errorf("unexpected name: got=%s want=%s", got, "Queen+Knight")
	}
	if got := p.SymbolLayout(); got != "(QN)" {
		t.Errorf("unexpected symbol: got=%s want=%s", got, "(QN)")
	}
	if got := NewPiece(SideBlack, PieceRook, PieceBishop).SymbolLayout(); got != "(rb)" {
		t.Errorf("unexpected symbol: got=%s want=%s", got, "(rb)")
	}
	if got := PieceUnknown.Side(); got != SideUnknown {
		t.Errorf("unexpected side of empty: got=%s", got)
	}
}

func TestPieceMerge(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		p, o Piece
		want Piece
	}{
		{
			name: "white knight onto white pawn",
			p:    NewPiece(SideWhite, PieceKnight),
			o:    NewPiece(SideWhite, PiecePawn),
			want: NewPiece(SideWhite, PieceKnight, PiecePawn),
		},
		{
			name: "black rook onto black bishop",
			p:    NewPiece(SideBlack, PieceRook),
			o:    NewPiece(SideBlack, PieceBishop),
			want: NewPiece(SideBlack, PieceRook, PieceBishop),
		},
		{
			name: "overlapping flags",
			p:    NewPiece(SideWhite, PieceQueen, PieceRook),
			o:    NewPiece(SideWhite, PieceRook, PiecePawn),
			want: NewPiece(SideWhite, PieceQueen, PieceRook, PiecePawn),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.p.Merge(tt.o)
			if got != tt.want {
				t.Errorf("unexpected merge: got=%08b want=%08b", uint8(got), uint8(tt.want))
			}
			if got != tt.p|tt.o {
				t.Errorf("merge is not the union: got=%08b want=%08b", uint8(got), uint8(tt.p|tt.o))
			}
		})
	}
}
