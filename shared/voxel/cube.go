package voxel

// CubeGeometry contém os buffers de vértices de um cubo unitário, já
// expandidos em triângulos (36 vértices, sem índices).
type CubeGeometry struct {
	Positions []float32 // xyz por vértice
	Normals   []float32 // xyz por vértice
	TexCoords []float32 // uv por vértice
}

// Cantos de cada face no espaço do tile, na mesma ordem dos pares UV da
// tabela: (u1,v1) canto inferior direito, (u0,v1) inferior esquerdo,
// (u1,v0) superior direito, (u0,v0) superior esquerdo. O cubo ocupa
// [0,1]³ com Y para cima e norte em -Z.
var faceCorners = [FaceCount][4][3]float32{
	FaceTop:    {{1, 1, 1}, {0, 1, 1}, {1, 1, 0}, {0, 1, 0}},
	FaceBottom: {{1, 0, 0}, {0, 0, 0}, {1, 0, 1}, {0, 0, 1}},
	FaceNorth:  {{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}},
	FaceEast:   {{1, 0, 0}, {1, 0, 1}, {1, 1, 0}, {1, 1, 1}},
	FaceSouth:  {{1, 0, 1}, {0, 0, 1}, {1, 1, 1}, {0, 1, 1}},
	FaceWest:   {{0, 0, 1}, {0, 0, 0}, {0, 1, 1}, {0, 1, 0}},
}

var faceNormals = [FaceCount][3]float32{
	FaceTop:    {0, 1, 0},
	FaceBottom: {0, -1, 0},
	FaceNorth:  {0, 0, -1},
	FaceEast:   {1, 0, 0},
	FaceSouth:  {0, 0, 1},
	FaceWest:   {-1, 0, 0},
}

// Dois triângulos por face, em ordem anti-horária vista de fora, indexando
// os cantos acima.
var faceTriangles = [6]int{1, 0, 3, 3, 0, 2}

// BuildCubeGeometry monta a geometria de um cubo unitário com as
// coordenadas de textura da tabela UV aplicadas face a face.
func BuildCubeGeometry(uv *UVTable) CubeGeometry {
	geo := CubeGeometry{
		Positions: make([]float32, 0, 36*3),
		Normals:   make([]float32, 0, 36*3),
		TexCoords: make([]float32, 0, 36*2),
	}

	for face := Face(0); face < FaceCount; face++ {
		corners := faceCorners[face]
		normal := faceNormals[face]
		coords := uv.FaceUV(face)

		for _, corner := range faceTriangles {
			pos := corners[corner]
			geo.Positions = append(geo.Positions, pos[0], pos[1], pos[2])
			geo.Normals = append(geo.Normals, normal[0], normal[1], normal[2])
			geo.TexCoords = append(geo.TexCoords, coords[corner*2], coords[corner*2+1])
		}
	}
	return geo
}
