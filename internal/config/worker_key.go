package config

type WorkerKeyStruct struct {
	TranscriptEmailQueue string
}

var WorkerKey = &WorkerKeyStruct{
	TranscriptEmailQueue: "transcript_email_queue",
}
