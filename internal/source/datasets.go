package source

// Preset is a public dataset offered in the dashboard dropdown.
type Preset struct {
	URL   string
	Label string
}

// Presets lists the Nextstrain-hosted surveillance metadata files the
// explorer knows about.
var Presets = []Preset{
	{"https://data.nextstrain.org/files/workflows/dengue/metadata_all.tsv.zst", "dengue/all"},
	{"https://data.nextstrain.org/files/workflows/dengue/metadata_denv1.tsv.zst", "dengue/denv1"},
	{"https://data.nextstrain.org/files/workflows/dengue/metadata_denv2.tsv.zst", "dengue/denv2"},
	{"https://data.nextstrain.org/files/workflows/dengue/metadata_denv3.tsv.zst", "dengue/denv3"},
	{"https://data.nextstrain.org/files/workflows/dengue/metadata_denv4.tsv.zst", "dengue/denv4"},
	{"https://data.nextstrain.org/files/workflows/forecasts-ncov/open/nextstrain_clades/global.tsv.gz", "forecasts-ncov/open/nextstrain_clades/global"},
	{"https://data.nextstrain.org/files/workflows/forecasts-ncov/open/nextstrain_clades/usa.tsv.gz", "forecasts-ncov/open/nextstrain_clades/usa"},
	{"https://data.nextstrain.org/files/workflows/forecasts-ncov/open/pango_lineages/global.tsv.gz", "forecasts-ncov/open/pango_lineages/global"},
	{"https://data.nextstrain.org/files/workflows/forecasts-ncov/open/pango_lineages/usa.tsv.gz", "forecasts-ncov/open/pango_lineages/usa"},
	{"https://data.nextstrain.org/files/workflows/measles/metadata.tsv.zst", "measles"},
	{"https://data.nextstrain.org/files/workflows/mpox/metadata.tsv.gz", "mpox"},
	{"https://data.nextstrain.org/files/ncov/open/global/metadata.tsv.xz", "ncov/open/global"},
	{"https://data.nextstrain.org/files/ncov/open/africa/metadata.tsv.xz", "ncov/open/africa"},
	{"https://data.nextstrain.org/files/ncov/open/asia/metadata.tsv.xz", "ncov/open/asia"},
	{"https://data.nextstrain.org/files/ncov/open/europe/metadata.tsv.xz", "ncov/open/europe"},
	{"https://data.nextstrain.org/files/ncov/open/north-america/metadata.tsv.xz", "ncov/open/north-america"},
	{"https://data.nextstrain.org/files/ncov/open/oceania/metadata.tsv.xz", "ncov/open/oceania"},
	{"https://data.nextstrain.org/files/ncov/open/south-america/metadata.tsv.xz", "ncov/open/south-america"},
	{"https://data.nextstrain.org/files/workflows/rsv/a/metadata.tsv.gz", "rsv/a"},
	{"https://data.nextstrain.org/files/workflows/rsv/b/metadata.tsv.gz", "rsv/b"},
	{"https://data.nextstrain.org/files/workflows/zika/metadata.tsv.zst", "zika"},
}

// PresetLabel returns the display label for a known preset URL, or the
// URL itself when unknown.
func PresetLabel(rawURL string) string {
	for _, p := range Presets {
		if p.URL == rawURL {
			return p.Label
		}
	}
	return rawURL
}
