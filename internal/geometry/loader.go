package geometry

import "github.com/nmxmxh/pixelsim/internal/config"

// Load populates an open Registry from the detector sections of a
// configuration document: one Detector per section, with position and
// orientation read from its `position`/`orientation` keys (defaulting to
// the origin/identity when absent) and its model reference deferred to
// Registry.Close. Mirrors GeometryManager::load.
func Load(r *Registry, sections []*config.Section, units config.UnitRegistry) error {
	for _, section := range sections {
		var position, orientation [3]float64
		if section.Has("position") {
			p, err := section.Get3Vector("position", units)
			if err != nil {
				return err
			}
			position = p
		}
		if section.Has("orientation") {
			o, err := section.Get3Vector("orientation", units)
			if err != nil {
				return err
			}
			orientation = o
		}
		modelType, err := section.GetString("type")
		if err != nil {
			return err
		}

		if err := r.AddDetector(NewDetector(section.Name(), modelType, position, orientation)); err != nil {
			return err
		}
	}
	return nil
}
