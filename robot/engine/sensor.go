package engine

// ReadSensors computes the three directional readings for a pose. Front is
// the heading, right is one right turn from it, left is one left turn. Entry
// cells and positions past the border read free; only walls and the victim
// are distinguishable.
func ReadSensors(g *Grid, pose Pose) SensorReading {
	return SensorReading{
		Left:  readingAt(g, pose.Position.Step(pose.Heading.TurnLeft())),
		Right: readingAt(g, pose.Position.Step(pose.Heading.TurnRight())),
		Front: readingAt(g, pose.Position.Step(pose.Heading)),
	}
}

func readingAt(g *Grid, p Position) Reading {
	switch g.Classify(p) {
	case CellWall:
		return ReadingWall
	case CellVictim:
		return ReadingVictim
	default:
		return ReadingFree
	}
}
