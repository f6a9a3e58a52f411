package material

import "github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/texture"

// Glass is the emissive-looking lamp bulb: fully ambient, no diffuse or specular response.
func Glass() Material {
	return NewMaterial(WithName("glass"), WithColor(1, 0.9, 0.7), WithLighting(1, 0, 0, 50))
}

// Metal is the lamp rod and shade.
func Metal() Material {
	return NewMaterial(WithName("metal"), WithColor(0.3, 0.3, 0.4), WithLighting(0.2, 0.2, 0.8, 50))
}

// Wall is the matte white used for walls and ceiling.
func Wall() Material {
	return NewMaterial(WithName("wall"), WithColor(1, 1, 1), WithLighting(0.2, 0.5, 0.2, 50))
}

// Wood is the brown used for the floor, the table legs and the rails.
func Wood() Material {
	return NewMaterial(WithName("wood"), WithColor(0.5, 0.38, 0.21), WithLighting(0.2, 0.5, 0.2, 50))
}

// Felt is the green non-specular table top.
func Felt() Material {
	return NewMaterial(WithName("felt"), WithColor(0.4, 1, 0.5), WithLighting(0.2, 0.5, 0, 50))
}

// Ball is the glossy billiard ball surface, optionally textured with its number.
func Ball(tex texture.Texture) Material {
	return NewMaterial(WithName("ball"), WithColor(1, 1, 1), WithLighting(0.2, 0.5, 1, 40), WithTexture(tex))
}
