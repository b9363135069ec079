package dto

type RejectRequestDTO struct {
	Reason string `json:"reason" validate:"notblank,max=500" example:"Payment not received"`
}

type CompleteRequestDTO struct {
	TransactionHash string `json:"transactionHash" validate:"notblank,max=128" example:"0x9f2c1a"`
}

type CancelRequestDTO struct {
	Reason string `json:"reason" validate:"max=500" example:"Cancelled at user request"`
}
