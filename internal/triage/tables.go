package triage

// Every table is ordered: when more than one entry matches, the first one wins.

var criticalModifiers = []string{"very", "extremely", "severely", "really", "unbearably", "intensely", "terribly"}

var urgentModifiers = []string{"moderately", "somewhat", "fairly", "quite", "rather"}

type symptomCategory struct {
	name     string
	critical []string
	urgent   []string
}

// intensityCategories are paired with the modifiers above: a keyword next to a
// critical modifier is critical, next to an urgent modifier urgent.
var intensityCategories = []symptomCategory{
	{
		name:     "dizziness",
		critical: []string{"dizzy", "dizziness", "lightheaded", "light-headed", "faint"},
		urgent:   []string{"dizzy", "dizziness", "lightheaded", "light-headed", "off balance"},
	},
	{
		name:     "pain",
		critical: []string{"pain", "painful", "hurts", "hurting", "ache"},
		urgent:   []string{"pain", "painful", "hurts", "sore", "ache"},
	},
	{
		name:     "breathing",
		critical: []string{"short of breath", "breathless", "wheezing", "struggling to breathe"},
		urgent:   []string{"short of breath", "breathless", "wheezing", "congested"},
	},
	{
		name:     "chest",
		critical: []string{"chest pain", "chest tightness", "tight chest", "chest pressure"},
		urgent:   []string{"chest discomfort", "chest tightness", "tight chest"},
	},
	{
		name:     "head",
		critical: []string{"headache", "head pain", "migraine", "head injury"},
		urgent:   []string{"headache", "migraine", "head pain"},
	},
}

type emergencyPhrase struct {
	phrase        string
	emergencyType string
}

var criticalPhrases = []emergencyPhrase{
	{"chest pain", "cardiac"},
	{"heart attack", "cardiac"},
	{"crushing chest", "cardiac"},
	{"chest pressure", "cardiac"},
	{"difficulty breathing", "respiratory"},
	{"can't breathe", "respiratory"},
	{"cannot breathe", "respiratory"},
	{"stopped breathing", "respiratory"},
	{"not breathing", "respiratory"},
	{"choking", "respiratory"},
	{"gasping for air", "respiratory"},
	{"turning blue", "respiratory"},
	{"severe bleeding", "bleeding"},
	{"heavy bleeding", "bleeding"},
	{"bleeding heavily", "bleeding"},
	{"won't stop bleeding", "bleeding"},
	{"coughing up blood", "bleeding"},
	{"vomiting blood", "bleeding"},
	{"unconscious", "neurological"},
	{"passed out", "neurological"},
	{"unresponsive", "neurological"},
	{"seizure", "neurological"},
	{"convulsion", "neurological"},
	{"stroke", "neurological"},
	{"face drooping", "neurological"},
	{"slurred speech", "neurological"},
	{"sudden numbness", "neurological"},
	{"paralysis", "neurological"},
	{"worst headache", "neurological"},
	{"severe headache", "neurological"},
	{"suicidal", "mental_health"},
	{"suicide", "mental_health"},
	{"kill myself", "mental_health"},
	{"overdose", "poisoning"},
	{"poisoning", "poisoning"},
	{"swallowed poison", "poisoning"},
	{"anaphylaxis", "allergic_reaction"},
	{"throat swelling", "allergic_reaction"},
	{"severe allergic reaction", "allergic_reaction"},
	{"head injury", "trauma"},
	{"broken bone", "trauma"},
	{"severe burn", "trauma"},
	{"car accident", "trauma"},
}

var urgentPhrases = []emergencyPhrase{
	{"moderate bleeding", "bleeding"},
	{"deep cut", "trauma"},
	{"sprained", "trauma"},
	{"possible fracture", "trauma"},
	{"eye injury", "trauma"},
	{"animal bite", "trauma"},
	{"high fever", "fever"},
	{"persistent fever", "fever"},
	{"persistent vomiting", "gastrointestinal"},
	{"severe diarrhea", "gastrointestinal"},
	{"blood in stool", "gastrointestinal"},
	{"severe abdominal pain", "gastrointestinal"},
	{"severe stomach pain", "gastrointestinal"},
	{"blood in urine", "urinary"},
	{"painful urination", "urinary"},
	{"dehydrated", "dehydration"},
	{"dehydration", "dehydration"},
	{"allergic reaction", "allergic_reaction"},
	{"swollen face", "allergic_reaction"},
	{"asthma attack", "respiratory"},
	{"wheezing", "respiratory"},
	{"panic attack", "mental_health"},
	{"migraine", "neurological"},
}

// The severity vocabularies and medicalTerms are matched as whole words.
var criticalVocabulary = []string{
	"emergency", "urgent", "severe", "dangerous", "cannot", "can't",
	"extreme", "unbearable", "worst", "unable",
}

var urgentVocabulary = []string{
	"moderate", "persistent", "worsening", "worse", "concerning",
	"significant", "recurring", "ongoing",
}

var medicalTerms = []string{
	"pain", "ache", "bleeding", "blood", "breathing", "breath", "chest", "heart",
	"head", "stomach", "abdomen", "fever", "vomiting", "nausea", "dizzy", "faint",
	"seizure", "rash", "swelling", "swollen", "injury", "wound", "burn", "cough",
	"throat", "infection", "allergic", "numbness", "weakness", "vision", "back",
	"neck", "leg", "joint", "bone", "skin", "symptom", "pressure", "tightness",
}

// urgentGuidance only covers some categories, everything else gets the generic text
var urgentGuidance = map[string]string{
	"dizziness": "Sit or lie down right away, drink some water, and avoid standing up quickly, climbing stairs or driving until it passes.",
	"pain":      "Rest the affected area, use an over-the-counter pain reliever if it is safe for you, and note when the pain started and what makes it worse.",
}

const genericUrgentGuidance = "Monitor your symptoms closely and seek care sooner if they get worse."

type selfCareSymptom struct {
	name    string
	aliases []string
	advice  string
}

var selfCareSymptoms = []selfCareSymptom{
	{
		name:    "headache",
		aliases: []string{"headache"},
		advice:  "Rest in a quiet, dark room, stay hydrated, and consider an over-the-counter pain reliever. Limit screen time and caffeine.",
	},
	{
		name:    "fever",
		aliases: []string{"fever", "feverish"},
		advice:  "Rest, drink plenty of fluids, and dress in light clothing. A fever reducer such as acetaminophen can help. Check your temperature regularly.",
	},
	{
		name:    "cough",
		aliases: []string{"cough"},
		advice:  "Drink warm fluids, try honey with warm water or tea, and use a humidifier. Avoid smoke and other irritants.",
	},
	{
		name:    "stomach pain",
		aliases: []string{"stomach pain", "stomachache", "stomach ache"},
		advice:  "Eat small bland meals, sip clear fluids, and avoid spicy, fatty or acidic food. A warm compress on your stomach may ease cramps.",
	},
	{
		name:    "sore throat",
		aliases: []string{"sore throat"},
		advice:  "Gargle with warm salt water, drink warm liquids, and use throat lozenges. Rest your voice.",
	},
	{
		name:    "runny nose",
		aliases: []string{"runny nose"},
		advice:  "Use saline nasal spray, stay hydrated, and rest. Breathing steam from a hot shower can help clear congestion.",
	},
	{
		name:    "fatigue",
		aliases: []string{"fatigue", "exhausted"},
		advice:  "Keep a regular sleep schedule, eat balanced meals, stay hydrated, and take short breaks during the day. Light exercise can improve energy.",
	},
	{
		name:    "muscle pain",
		aliases: []string{"muscle pain", "muscle ache", "sore muscles"},
		advice:  "Rest the muscle, apply ice for the first 48 hours and then heat, and stretch gently. An over-the-counter pain reliever can help.",
	},
	{
		name:    "dizziness",
		aliases: []string{"dizziness", "dizzy"},
		advice:  "Sit or lie down until it passes, drink water, and stand up slowly. Avoid driving while you feel dizzy.",
	},
	{
		name:    "rash",
		aliases: []string{"rash"},
		advice:  "Keep the area clean and dry, avoid scratching, and use a fragrance-free moisturizer or hydrocortisone cream. Note any new soaps or foods.",
	},
	{
		name:    "nausea",
		aliases: []string{"nausea", "nauseous"},
		advice:  "Sip clear fluids slowly, eat plain crackers or toast, and avoid strong smells. Ginger tea may help settle your stomach.",
	},
	{
		name:    "back pain",
		aliases: []string{"back pain", "backache"},
		advice:  "Stay gently active, apply heat or ice, and keep good posture. Avoid heavy lifting until it improves.",
	},
}

type conditionReferral struct {
	word           string
	specialization string
}

// conditionReferrals map whole condition words to the specialization to refer to
var conditionReferrals = []conditionReferral{
	{"heart", "Cardiology"},
	{"chest", "Cardiology"},
	{"headache", "Neurology"},
	{"brain", "Neurology"},
	{"skin", "Dermatology"},
	{"rash", "Dermatology"},
	{"child", "Pediatrics"},
	{"baby", "Pediatrics"},
	{"mental", "Psychiatry"},
	{"anxiety", "Psychiatry"},
	{"bone", "Orthopedics"},
	{"joint", "Orthopedics"},
	{"women", "Gynecology"},
	{"pregnancy", "Gynecology"},
	{"eye", "Ophthalmology"},
	{"vision", "Ophthalmology"},
	{"ear", "ENT"},
	{"nose", "ENT"},
	{"throat", "ENT"},
}

type smallTalk struct {
	words []string
	reply string
}

var smallTalkReplies = []smallTalk{
	{
		words: []string{"hello", "hi", "hey"},
		reply: "Hello! I'm the AskaDoc assistant. Tell me about your symptoms and I'll help you figure out what to do next.",
	},
	{
		words: []string{"help"},
		reply: "I can give self-care tips for common symptoms, flag symptoms that need urgent care, and point you to a suitable doctor. Describe how you feel in a sentence or two.",
	},
	{
		words: []string{"thank", "thanks"},
		reply: "You're welcome! Take care, and reach out again if your symptoms change.",
	},
	{
		words: []string{"bye", "goodbye"},
		reply: "Goodbye! If your symptoms get worse, please contact a doctor right away.",
	},
}

const fallbackReply = "I'm not sure I understand. Could you please describe your symptoms in more detail, for example where it hurts, how long it has lasted and how severe it is?"
