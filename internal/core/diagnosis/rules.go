// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

package diagnosis

import "strings"

// diseaseRule is one entry of the classifier catalog.
type diseaseRule struct {
	patterns        []string
	label           string
	baseConfidence  float64
	recommendations []string
}

// diseaseRules is the shared disease catalog: keyword patterns, base
// confidence, and immediate recommendations per disease.
var diseaseRules = []diseaseRule{
	{patterns: []string{"late blight", "phytophthora"}, label: "Late Blight", baseConfidence: 0.88, recommendations: []string{
		"Apply fungicides effective against late blight.",
		"Remove and destroy infected plant debris.",
		"Avoid leaf wetness; ensure good field drainage.",
	}},
	{patterns: []string{"early blight", "alternaria"}, label: "Early Blight", baseConfidence: 0.84, recommendations: []string{
		"Rotate crops and avoid nightshade volunteers.",
		"Use protectant fungicides as per label.",
		"Prune lower leaves to improve airflow.",
	}},
	{patterns: []string{"rust", "orange pustule", "pustule", "orange", "brown"}, label: "Rust", baseConfidence: 0.80, recommendations: []string{
		"Apply rust-targeted fungicide.",
		"Reduce overhead irrigation; minimize leaf wetness.",
		"Scout nearby fields for spread and volunteer hosts.",
	}},
	{patterns: []string{"leaf spot", "spot", "cercospora"}, label: "Leaf Spot", baseConfidence: 0.78, recommendations: []string{
		"Remove severely spotted leaves.",
		"Use a broad-spectrum fungicide if pressure is high.",
		"Increase spacing to improve airflow.",
	}},
	{patterns: []string{"downy", "downy mildew", "peronospora"}, label: "Downy Mildew", baseConfidence: 0.82, recommendations: []string{
		"Use labeled fungicides effective on downy mildew.",
		"Reduce leaf wetness; water early in the day.",
		"Improve airflow and remove infected material.",
	}},
	{patterns: []string{"anthracnose"}, label: "Anthracnose", baseConfidence: 0.79, recommendations: []string{
		"Prune and destroy infected tissues.",
		"Apply recommended fungicides preventively.",
		"Avoid overhead irrigation.",
	}},
	{patterns: []string{"septoria"}, label: "Septoria Leaf Spot", baseConfidence: 0.77, recommendations: []string{
		"Remove infected leaves and debris.",
		"Rotate crops; avoid volunteer hosts.",
		"Use protectant fungicides where needed.",
	}},
	{patterns: []string{"mildew", "powdery"}, label: "Powdery Mildew", baseConfidence: 0.83, recommendations: []string{
		"Apply sulfur or other labeled fungicides.",
		"Avoid excessive nitrogen fertilization.",
		"Ensure sunlight penetration and airflow.",
	}},
	{patterns: []string{"mosaic", "virus"}, label: "Viral Mosaic", baseConfidence: 0.76, recommendations: []string{
		"Remove infected plants to reduce spread.",
		"Control vectors (aphids/whiteflies).",
		"Use certified disease-free seed/planting material.",
	}},
	{patterns: []string{"leaf curl", "curl"}, label: "Leaf Curl Virus", baseConfidence: 0.75, recommendations: []string{
		"Rogue infected plants.", "Control whitefly/aphid vectors.", "Use virus-free transplants.",
	}},
	{patterns: []string{"fusarium", "wilt"}, label: "Fusarium Wilt", baseConfidence: 0.74, recommendations: []string{
		"Remove infected plants; sanitize soil-contact tools.",
		"Improve drainage; avoid waterlogging.",
		"Use resistant cultivars and rotate crops.",
	}},
	{patterns: []string{"verticillium"}, label: "Verticillium Wilt", baseConfidence: 0.72, recommendations: []string{
		"Rotate out of susceptible hosts for multiple seasons.",
		"Improve soil health; solarize where feasible.",
		"Use resistant rootstocks/cultivars.",
	}},
	{patterns: []string{"canker"}, label: "Canker", baseConfidence: 0.70, recommendations: []string{
		"Prune cankered tissue; disinfect tools.",
		"Apply copper-based protectants after pruning.",
		"Avoid injuries and water stress.",
	}},
	{patterns: []string{"leaf miner", "miner trails", "mining"}, label: "Leaf Miner Damage", baseConfidence: 0.68, recommendations: []string{
		"Remove mined leaves.", "Use labeled insecticides if pressure high.", "Promote natural enemies.",
	}},
	{patterns: []string{"aphid", "aphids"}, label: "Aphid Infestation", baseConfidence: 0.66, recommendations: []string{
		"Use insecticidal soap or labeled aphicides.", "Control ants; encourage predators.", "Remove heavily infested shoots.",
	}},
	{patterns: []string{"nitrogen deficiency", "chlorosis", "pale"}, label: "Nitrogen Deficiency", baseConfidence: 0.65, recommendations: []string{
		"Apply recommended nitrogen fertilizer.", "Mulch and add organic matter.", "Confirm via soil test.",
	}},
	{patterns: []string{"potassium deficiency", "leaf edge burn", "scorch"}, label: "Potassium Deficiency", baseConfidence: 0.64, recommendations: []string{
		"Apply K fertilizer per soil test.", "Avoid drought stress.", "Balance N:K ratio.",
	}},
	{patterns: []string{"magnesium deficiency", "interveinal chlorosis"}, label: "Magnesium Deficiency", baseConfidence: 0.64, recommendations: []string{
		"Apply Mg (e.g., Epsom salt) per recommendation.", "Manage soil pH.", "Avoid excess K competing with Mg.",
	}},
	{patterns: []string{"iron deficiency", "iron chlorosis"}, label: "Iron Chlorosis", baseConfidence: 0.63, recommendations: []string{
		"Apply chelated iron as foliar or soil drench.", "Adjust pH to optimal range.", "Improve drainage.",
	}},
	{patterns: []string{"phosphorus deficiency", "purpling"}, label: "Phosphorus Deficiency", baseConfidence: 0.62, recommendations: []string{
		"Apply P fertilizer per soil test.", "Maintain warm, well-drained soil.", "Avoid over-liming.",
	}},
	{patterns: []string{"scab"}, label: "Scab", baseConfidence: 0.74, recommendations: []string{
		"Maintain proper soil moisture and pH.", "Use resistant varieties when available.", "Practice crop rotation.",
	}},
	{patterns: []string{"black rot"}, label: "Black Rot", baseConfidence: 0.78, recommendations: []string{
		"Remove mummified fruit and cankered wood.", "Apply fungicides during susceptible periods.", "Promote canopy airflow.",
	}},
	{patterns: []string{"bacterial spot", "xanthomonas"}, label: "Bacterial Leaf Spot", baseConfidence: 0.75, recommendations: []string{
		"Use certified disease-free seed/transplants.", "Apply copper-based bactericides per label.", "Avoid handling when foliage is wet.",
	}},
	{patterns: []string{"bacterial", "ooze"}, label: "Bacterial Infection", baseConfidence: 0.72, recommendations: []string{
		"Remove infected tissue and sanitize tools.", "Avoid working in fields when foliage is wet.", "Consider copper-based bactericides per label.",
	}},
	{patterns: []string{"sunscald", "sun burn", "sunburn", "heat stress"}, label: "Sunscald / Heat Stress", baseConfidence: 0.68, recommendations: []string{
		"Provide shade or reduce heat exposure.", "Avoid midday spraying to prevent burn.", "Ensure adequate irrigation.",
	}},
	{patterns: []string{"sooty mold", "sooty"}, label: "Sooty Mold", baseConfidence: 0.66, recommendations: []string{
		"Control sap-sucking insects (aphids/whiteflies).", "Wash foliage to remove soot where practical.", "Improve airflow and reduce honeydew sources.",
	}},
	{patterns: []string{"healthy", "normal"}, label: DiseaseHealthy, baseConfidence: 0.90, recommendations: []string{
		"No action required.", "Continue routine scouting and good agronomy.",
	}},
}

// unknownRecommendations is returned when no rule can be scored at all.
var unknownRecommendations = []string{
	"Unable to confidently classify. Re-take a clear, well-lit image.",
	"Scout for additional symptoms and consult a local expert if needed.",
}

// treatmentCatalog holds baseline treatment guidance per disease; the engine
// adds severity-specific steps on top.
var treatmentCatalog = map[string][]string{
	normalizeLabel(DiseaseUnknown): {
		"Re-take a clear, well-lit image for better diagnosis.",
		"Consult local extension for ambiguous symptoms.",
	},
	normalizeLabel(DiseaseHealthy):         {"Maintain good agronomy; continue monitoring."},
	normalizeLabel("Late Blight"):          {"Destroy infected debris and volunteer hosts.", "Apply systemic+contact fungicide rotation as labeled.", "Improve drainage; avoid prolonged leaf wetness."},
	normalizeLabel("Early Blight"):         {"Remove lower infected leaves to reduce inoculum.", "Use protectant fungicides; rotate modes of action.", "Maintain balanced nutrition; avoid overhead irrigation."},
	normalizeLabel("Rust"):                 {"Scout and remove heavily infected leaves.", "Apply rust-targeted fungicides per label.", "Reduce leaf wetness; increase airflow."},
	normalizeLabel("Leaf Spot"):            {"Prune affected foliage and dispose away from field.", "Use broad-spectrum protectants if pressure is high.", "Improve canopy airflow and sanitation."},
	normalizeLabel("Downy Mildew"):         {"Use effective downy mildew fungicides.", "Irrigate early; minimize night-time leaf wetness.", "Remove infected material; enhance airflow."},
	normalizeLabel("Anthracnose"):          {"Prune and destroy infected twigs/fruit.", "Preventive fungicide sprays during wet periods.", "Avoid overhead irrigation; sanitize tools."},
	normalizeLabel("Septoria Leaf Spot"):   {"Remove infected leaves and debris.", "Rotate crops; use clean seed/transplants.", "Apply protectants; improve airflow."},
	normalizeLabel("Powdery Mildew"):       {"Apply sulfur or labeled PM fungicides.", "Avoid excess nitrogen; improve sunlight and airflow.", "Remove severely infected leaves."},
	normalizeLabel("Viral Mosaic"):         {"Rogue infected plants to limit spread.", "Control vectors (aphids/whiteflies).", "Use virus-free seed/planting material."},
	normalizeLabel("Leaf Curl Virus"):      {"Rogue infected plants.", "Control whitefly/aphid vectors.", "Use virus-free transplants."},
	normalizeLabel("Fusarium Wilt"):        {"Remove infected plants; sanitize tools.", "Improve drainage; avoid waterlogging.", "Use resistant cultivars and rotate crops."},
	normalizeLabel("Verticillium Wilt"):    {"Rotate out of susceptible hosts.", "Improve soil health; solarize where feasible.", "Use resistant rootstocks/cultivars."},
	normalizeLabel("Canker"):               {"Prune cankered tissue 10–15 cm below symptoms; disinfect tools.", "Copper-based sprays after pruning.", "Avoid injuries and water stress."},
	normalizeLabel("Leaf Miner Damage"):    {"Remove mined leaves.", "Use labeled insecticides if pressure high.", "Promote natural enemies."},
	normalizeLabel("Aphid Infestation"):    {"Use insecticidal soap or aphicides as labeled.", "Control ants; encourage predators.", "Remove heavily infested shoots."},
	normalizeLabel("Scab"):                 {"Maintain moisture and pH; avoid injuries.", "Use resistant varieties when available.", "Rotate out of susceptible hosts."},
	normalizeLabel("Black Rot"):            {"Remove mummified fruit and cankered wood.", "Fungicide program during susceptible stages.", "Open canopy to improve drying."},
	normalizeLabel("Bacterial Leaf Spot"):  {"Use certified disease-free seed/transplants.", "Copper-based bactericides; avoid handling wet foliage.", "Sanitize tools and manage splash dispersal."},
	normalizeLabel("Bacterial Infection"):  {"Prune infected tissue; sanitize equipment.", "Avoid working when foliage is wet.", "Consider copper products as labeled."},
	normalizeLabel("Sunscald / Heat Stress"): {"Provide shade; stagger irrigation to reduce stress.", "Avoid midday sprays; use mulch to conserve moisture.", "Plan for heat-tolerant varieties."},
	normalizeLabel("Nitrogen Deficiency"):  {"Apply recommended nitrogen; avoid over-application.", "Incorporate organic matter; mulch.", "Verify with soil test; re-evaluate in 10–14 days."},
	normalizeLabel("Potassium Deficiency"): {"Apply K fertilizer per soil test.", "Avoid drought stress.", "Balance N:K ratio."},
	normalizeLabel("Magnesium Deficiency"): {"Apply Mg (e.g., Epsom salt) per recommendation.", "Manage soil pH.", "Avoid excess K competing with Mg."},
	normalizeLabel("Iron Chlorosis"):       {"Apply chelated iron.", "Adjust pH to optimal range.", "Improve drainage."},
	normalizeLabel("Phosphorus Deficiency"): {"Apply P fertilizer per soil test.", "Maintain warm, well-drained soil.", "Avoid over-liming."},
	normalizeLabel("Sooty Mold"):           {"Control sap-sucking pests (aphids/whiteflies).", "Wash affected leaves where practical.", "Improve airflow; remove honeydew sources."},
}

// normalizeLabel canonicalizes a disease label for treatment lookup.
func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// treatmentFor returns the baseline treatment for a disease, falling back to
// the Unknown guidance.
func treatmentFor(disease string) []string {
	if steps, ok := treatmentCatalog[normalizeLabel(disease)]; ok {
		return steps
	}
	return treatmentCatalog[normalizeLabel(DiseaseUnknown)]
}
