package voxel

import "errors"

// Erros de pré-condição do modelo. Todos são classe erro-de-programação:
// a operação aborta imediatamente e não há retry.
var (
	// ErrOutOfBounds indica escrita de célula com coordenadas fora da grade.
	ErrOutOfBounds = errors.New("voxel: coordenadas fora dos limites da grade")

	// ErrCapacityExceeded indica append além do volume nominal da grade.
	ErrCapacityExceeded = errors.New("voxel: capacidade da grade excedida")

	// ErrMissingTextureData indica placement antes de SetTextureAtlas.
	ErrMissingTextureData = errors.New("voxel: dados de textura não definidos")
)
