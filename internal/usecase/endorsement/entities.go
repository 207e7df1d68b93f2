package endorsement

type EndorseInput struct {
	Endorser string `json:"endorser"`
	Endorsee string `json:"endorsee"`
	Stake    int64  `json:"stake"`
}

type EndorsementDTO struct {
	EndorsementID string `json:"endorsement_id"`
	Endorser      string `json:"endorser"`
	Endorsee      string `json:"endorsee"`
	Stake         int64  `json:"stake"`
	ScoreCredit   int64  `json:"score_credit"`
	CreatedAt     int64  `json:"created_at"`
}
