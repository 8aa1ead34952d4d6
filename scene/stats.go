package scene

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
)

// Build a tabular representation of scene statistics.
func (s *Scene) Stats() string {
	primCount := map[PrimitiveType]int{}
	for _, prim := range s.Primitives {
		primCount[prim.Type]++
	}
	matCount := map[MaterialType]int{}
	emissive := 0
	for _, mat := range s.Materials {
		matCount[mat.Type]++
		if !mat.Emissive.IsZero() {
			emissive++
		}
	}
	lightCount := map[LightType]int{}
	for _, light := range s.Lights {
		lightCount[light.Type]++
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Count"})
	table.Append([]string{"Geometry", "---", fmt.Sprint(len(s.Primitives))})
	for _, pt := range []PrimitiveType{PlanePrimitive, SpherePrimitive} {
		table.Append([]string{"", pt.String(), fmt.Sprint(primCount[pt])})
	}
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Materials", "---", fmt.Sprint(len(s.Materials))})
	for _, mt := range []MaterialType{DiffuseMaterial, MirrorMaterial, TransparentMaterial, VolumeMaterial, SubsurfaceMaterial} {
		table.Append([]string{"", mt.String(), fmt.Sprint(matCount[mt])})
	}
	table.Append([]string{"", "emissive", fmt.Sprint(emissive)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Lights", "---", fmt.Sprint(len(s.Lights))})
	for _, lt := range []LightType{PointLight, SphereLight} {
		table.Append([]string{"", lt.String(), fmt.Sprint(lightCount[lt])})
	}
	table.SetFooter([]string{"Background", " ", fmt.Sprintf("(%.2f, %.2f, %.2f)", s.BgColor[0], s.BgColor[1], s.BgColor[2])})

	table.Render()
	return buf.String()
}
