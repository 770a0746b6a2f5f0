package api

// Dispatcher collects the messages of one dialogue turn. It is the
// presentation sink: actions write into it, the webhook handler drains it.
type Dispatcher struct {
	responses []Response
}

func (d *Dispatcher) Say(text string) {
	if text == "" {
		return
	}
	d.responses = append(d.responses, Response{Text: text})
}

func (d *Dispatcher) SayWithImage(text, image string) {
	d.responses = append(d.responses, Response{Text: text, Image: image})
}

func (d *Dispatcher) Responses() []Response {
	return d.responses
}
