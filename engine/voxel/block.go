package voxel

import "strings"

// Block packs a type id in bits 0-11 and material flags above it.
type Block uint16

const (
	BlockIDMask Block = 0x0FFF
	FlagSolid   Block = 1 << 12
	FlagFluid   Block = 1 << 13
	FlagOpaque  Block = 1 << 14
)

const (
	Air     Block = 0
	Stone         = 1 | FlagSolid | FlagOpaque
	Dirt          = 2 | FlagSolid | FlagOpaque
	Grass         = 3 | FlagSolid | FlagOpaque
	Sand          = 4 | FlagSolid | FlagOpaque
	Water         = 5 | FlagFluid
	Glass         = 6 | FlagSolid
	Leaves        = 7 | FlagSolid
	Log           = 8 | FlagSolid | FlagOpaque
	Bedrock       = 9 | FlagSolid | FlagOpaque
)

var blockNames = map[string]Block{
	"air":     Air,
	"stone":   Stone,
	"dirt":    Dirt,
	"grass":   Grass,
	"sand":    Sand,
	"water":   Water,
	"glass":   Glass,
	"leaves":  Leaves,
	"log":     Log,
	"bedrock": Bedrock,
}

func BlockByName(name string) (Block, bool) {
	b, ok := blockNames[strings.ToLower(name)]
	return b, ok
}

func (b Block) ID() uint16 {
	return uint16(b & BlockIDMask)
}

func (b Block) IsAir() bool {
	return b.ID() == AIR
}

func (b Block) IsSolid() bool {
	return b&FlagSolid != 0
}

func (b Block) IsFluid() bool {
	return b&FlagFluid != 0
}

func (b Block) IsOpaque() bool {
	return b&FlagOpaque != 0
}

func (b Block) Name() string {
	for name, block := range blockNames {
		if block == b {
			return name
		}
	}
	return "unknown"
}
