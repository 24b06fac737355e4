package signature

// Built-in signature definitions, used when no signature directory is
// configured or when the configured directory yields nothing. They cover
// the classic "confidently wrong tutorial" dangers across the core
// categories; real deployments extend them with YAML shards.

var builtinCategories = map[string]Category{
	"fitness":    {ID: "fitness", Name: "Fitness", Description: "Exercise and workout safety"},
	"diy":        {ID: "diy", Name: "DIY", Description: "Do-it-yourself project safety"},
	"cooking":    {ID: "cooking", Name: "Cooking", Description: "Food preparation and kitchen safety"},
	"electrical": {ID: "electrical", Name: "Electrical", Description: "Electrical work and fire safety"},
	"medical":    {ID: "medical", Name: "Medical", Description: "Health and medical information"},
	"chemical":   {ID: "chemical", Name: "Chemical", Description: "Chemical handling and mixing"},
	"automotive": {ID: "automotive", Name: "Automotive", Description: "Vehicle repair and maintenance"},
	"childcare":  {ID: "childcare", Name: "Childcare", Description: "Child safety and parenting"},
}

// builtinDef is the compact literal form used only in this file.
type builtinDef struct {
	id, category string
	severity     Severity
	triggers     []string
	exclusions   []string
	message      string
	source       string
}

var builtinDefs = []builtinDef{
	// Fitness
	{"fitness-001", "fitness", SeverityHigh,
		[]string{"lock your knees", "fully extend and lock", "keep knees locked"},
		[]string{"don't lock", "never lock", "avoid locking"},
		"Locking knees during exercises can cause hyperextension injuries and joint damage",
		"ACSM Guidelines"},
	{"fitness-002", "fitness", SeverityHigh,
		[]string{"bounce at the bottom", "use momentum to bounce", "bouncing helps lift more"},
		nil,
		"Bouncing during lifts can cause muscle tears and joint injuries",
		"NSCA Strength Training Guidelines"},
	{"fitness-003", "fitness", SeverityHigh,
		[]string{"lift without a spotter", "no spotter needed", "max out alone"},
		[]string{"always use a spotter", "never lift without"},
		"Heavy lifts without a spotter risk being trapped under the bar",
		"NSCA Strength Training Guidelines"},
	{"fitness-004", "fitness", SeverityMedium,
		[]string{"no warm up needed", "skip the warmup", "warming up is a waste"},
		nil,
		"Skipping warmup increases risk of muscle strains and injuries",
		"ACSM Guidelines"},

	// DIY
	{"diy-001", "diy", SeverityHigh,
		[]string{"galvanized pipe for bbq", "galvanized steel grill", "zinc coated for cooking"},
		nil,
		"Heating galvanized metal releases toxic zinc fumes causing metal fume fever",
		"OSHA Safety Guidelines"},
	{"diy-002", "diy", SeverityHigh,
		[]string{"pvc pipe for compressed air", "pvc air compressor line", "plastic pipe pressurized"},
		nil,
		"PVC can shatter under pressure, sending shrapnel. Never use for compressed air",
		"OSHA Compressed Air Safety"},
	{"diy-003", "diy", SeverityMedium,
		[]string{"pressure treated wood fire", "burn treated lumber", "pressure treated firewood"},
		nil,
		"Burning pressure-treated wood releases toxic chemicals including arsenic",
		"EPA Guidelines"},

	// Cooking
	{"cooking-001", "cooking", SeverityHigh,
		[]string{"add water to hot oil", "pour water in grease", "water into frying oil"},
		[]string{"never add water", "don't add water"},
		"Water in hot oil causes explosive splattering and severe burns",
		"Fire Safety Guidelines"},
	{"cooking-002", "cooking", SeverityHigh,
		[]string{"raw chicken safe to taste", "pink chicken is fine", "undercooked poultry ok"},
		nil,
		"Undercooked chicken can contain Salmonella and Campylobacter",
		"USDA Food Safety"},
	{"cooking-003", "cooking", SeverityMedium,
		[]string{"leave rice out overnight", "room temperature rice safe", "rice doesn't need refrigeration"},
		nil,
		"Cooked rice left at room temperature can grow Bacillus cereus bacteria",
		"FDA Food Safety Guidelines"},

	// Electrical
	{"electrical-001", "electrical", SeverityCritical,
		[]string{"penny in fuse box", "bypass the fuse", "wire around breaker"},
		nil,
		"Bypassing electrical protection causes fires and electrocution",
		"NEC Electrical Code"},
	{"electrical-002", "electrical", SeverityHigh,
		[]string{"daisy chain power strips", "extension cord to extension cord", "plug strip into strip"},
		nil,
		"Daisy-chaining power strips causes overheating and fires",
		"NFPA Fire Safety"},

	// Medical
	{"medical-001", "medical", SeverityCritical,
		[]string{"drink bleach to detox", "mms miracle mineral", "chlorine dioxide cure"},
		nil,
		"Ingesting bleach or chlorine dioxide is toxic and potentially fatal",
		"FDA Warning"},
	{"medical-002", "medical", SeverityHigh,
		[]string{"essential oils cure cancer", "oils replace vaccines", "essential oil antibiotic"},
		nil,
		"Essential oils are not proven treatments for serious diseases",
		"FDA/FTC Guidelines"},
	{"medical-003", "medical", SeverityMedium,
		[]string{"put butter on burn", "ice directly on burn", "toothpaste on burn"},
		nil,
		"These burn treatments trap heat and can cause infection",
		"American Red Cross"},

	// Chemical
	{"chemical-001", "chemical", SeverityCritical,
		[]string{"mix bleach and ammonia", "bleach with vinegar", "combine cleaning products"},
		[]string{"never mix", "don't mix", "dangerous to mix"},
		"Mixing bleach with ammonia or acids creates toxic chlorine gas",
		"CDC Chemical Safety"},
	{"chemical-002", "chemical", SeverityHigh,
		[]string{"add water to acid", "pour water into acid"},
		[]string{"never add water to acid", "add acid to water"},
		"Adding water to concentrated acid causes a violent exothermic reaction",
		"OSHA Chemical Safety"},

	// Automotive
	{"automotive-001", "automotive", SeverityHigh,
		[]string{"jack stands are optional", "work under car on jack only", "cinder block jack stand"},
		nil,
		"A vehicle supported only by a jack or blocks can fall and crush you",
		"NHTSA Safety Guidelines"},

	// Childcare
	{"childcare-001", "childcare", SeverityHigh,
		[]string{"baby sleep with blanket", "pillows in crib safe", "bumper pads safe"},
		nil,
		"Soft bedding in cribs increases SIDS and suffocation risk",
		"AAP Safe Sleep Guidelines"},
	{"childcare-002", "childcare", SeverityCritical,
		[]string{"leave baby in car", "kids alone in bathtub", "unattended in the pool"},
		[]string{"never leave", "don't leave"},
		"Leaving young children unattended near water or in vehicles can be fatal",
		"AAP Safety Guidelines"},
}

// builtinSignatures compiles the default set. Substring triggers only, so
// compilation cannot fail.
func builtinSignatures() []*Signature {
	out := make([]*Signature, 0, len(builtinDefs))
	for _, d := range builtinDefs {
		sig := &Signature{
			ID:       d.id,
			Category: d.category,
			Severity: d.severity,
			Message:  d.message,
			Source:   d.source,
		}
		sig.Triggers = append(sig.Triggers, d.triggers...)
		sig.Exclusions = append(sig.Exclusions, d.exclusions...)
		out = append(out, sig)
	}
	return out
}
