package universe

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name  string //template name
	Descr string //template descr
	Cells []Cell
}

//DefTemplate is settled at startup
const DefTemplate = "seed"

//DefaultTemplates are added to each new universe
var DefaultTemplates = []Template{
	{
		DefTemplate,
		"the startup seed, 5 cells growing for a long time",
		[]Cell{{0, 0}, {-1, 0}, {0, -1}, {0, 1}, {1, 1}},
	},
	{
		"blinker",
		"period 2 oscillator",
		[]Cell{{-1, 0}, {0, 0}, {1, 0}},
	},
	{
		"block",
		"2x2 still life",
		[]Cell{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	},
	{
		"glider",
		"moves diagonally by one cell every 4 generations",
		[]Cell{{0, 1}, {1, 0}, {-1, -1}, {0, -1}, {1, -1}},
	},
	{
		"testSample",
		"the sample used by the benchmarks",
		[]Cell{{1, 1}, {1, 2}, {2, 1}, {2, 2}, {3, 3}, {4, 2}, {4, 3}, {5, 3}},
	},
}

//TemplateNames returns the names of the default templates
func TemplateNames() []string {
	names := make([]string, 0, len(DefaultTemplates))
	for _, t := range DefaultTemplates {
		names = append(names, t.Name)
	}
	return names
}
