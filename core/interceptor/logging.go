package interceptor

import (
	"time"

	"github.com/anoideaopen/proxy/core/invocation"
	"github.com/sirupsen/logrus"
)

// Logging returns an interceptor that logs every call at debug level and
// failed calls at warning level.
func Logging(entry *logrus.Entry) Interceptor {
	return Func(func(inv *invocation.Invocation, next Handler) ([]any, error) {
		member := inv.Member()
		log := entry.WithFields(logrus.Fields{
			"call_id": inv.ID().String(),
			"member":  member.Key(),
			"kind":    member.Kind.String(),
		})
		if declaring := member.DeclaringType(); declaring != nil {
			log = log.WithField("type", declaring.String())
		}

		log.WithField("args", len(inv.Arguments())).Debug("invoking proxy member")

		started := time.Now()
		values, err := next.Invoke(inv)
		log = log.WithField("duration", time.Since(started))

		if err != nil {
			log.WithError(err).Warn("proxy member failed")
			return values, err
		}

		log.WithField("results", len(values)).Debug("proxy member returned")

		return values, nil
	})
}
