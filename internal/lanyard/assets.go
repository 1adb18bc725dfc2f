package lanyard

// Assets names the meshes and band texture the renderer preloads. The scene
// only checks that they were supplied.
type Assets struct {
	Meshes      []string
	BandTexture string
}

var DefaultAssets = Assets{
	Meshes:      []string{"clip", "clamp", "card"},
	BandTexture: "band.png",
}

func (a Assets) Ready() bool {
	return len(a.Meshes) > 0 && a.BandTexture != ""
}
