package deepgram

type deepgramVoice string

const (
	VoiceAuraAsteria deepgramVoice = "aura-asteria-en"
	VoiceAuraLuna    deepgramVoice = "aura-luna-en"
	VoiceAuraStella  deepgramVoice = "aura-stella-en"
	VoiceAuraAthena  deepgramVoice = "aura-athena-en"
	VoiceAuraHera    deepgramVoice = "aura-hera-en"
	VoiceAuraOrion   deepgramVoice = "aura-orion-en"
	VoiceAuraArcas   deepgramVoice = "aura-arcas-en"
	VoiceAuraPerseus deepgramVoice = "aura-perseus-en"
	VoiceAuraAngus   deepgramVoice = "aura-angus-en"
	VoiceAuraOrpheus deepgramVoice = "aura-orpheus-en"
	VoiceAuraHelios  deepgramVoice = "aura-helios-en"
	VoiceAuraZeus    deepgramVoice = "aura-zeus-en"
)

const defaultVoice = VoiceAuraAsteria

func GetAvailableVoices() []deepgramVoice {
	return []deepgramVoice{
		VoiceAuraAsteria,
		VoiceAuraLuna,
		VoiceAuraStella,
		VoiceAuraAthena,
		VoiceAuraHera,
		VoiceAuraOrion,
		VoiceAuraArcas,
		VoiceAuraPerseus,
		VoiceAuraAngus,
		VoiceAuraOrpheus,
		VoiceAuraHelios,
		VoiceAuraZeus,
	}
}
